package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/catalog"
	"github.com/gradeufla/planner-api/internal/dto"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
)

func newCatalogServiceForTest(repo *mockSubjectRepo) *CatalogService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	return NewCatalogService(repo, catalog.NewImporter(100, nil), cache, nil, time.Minute, zap.NewNop())
}

func TestCatalogServiceGet(t *testing.T) {
	svc := newCatalogServiceForTest(&mockSubjectRepo{subjects: testCatalog()})

	subject, err := svc.Get(context.Background(), "gcc100")
	require.NoError(t, err)
	assert.Equal(t, "GCC100", subject.Code, "lookup normalizes the code first")

	_, err = svc.Get(context.Background(), "GCC999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), "??")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceList(t *testing.T) {
	svc := newCatalogServiceForTest(&mockSubjectRepo{subjects: testCatalog()})

	subjects, pagination, err := svc.List(context.Background(), dto.SubjectQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, subjects, len(testCatalog()))
	assert.Equal(t, len(testCatalog()), pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}

func TestCatalogServiceImportReplacesCatalog(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newCatalogServiceForTest(repo)

	csv := "codigo,nome,creditos,tipo,semestre\n" +
		"GCC100,Algoritmos,4,obrigatoria,1\n" +
		"GCC200,Estruturas de Dados,4,obrigatoria,2\n"

	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, repo.replaced, 2)
	assert.Equal(t, "GCC100", repo.replaced[0].Code)
}

func TestCatalogServiceImportRejectionKeepsCatalog(t *testing.T) {
	repo := &mockSubjectRepo{subjects: testCatalog()}
	svc := newCatalogServiceForTest(repo)

	csv := "codigo,nome,creditos\n,Sem codigo,4\n"
	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportRejected.Code, appErrors.FromError(err).Code)
	require.NotNil(t, report)
	assert.Len(t, report.Errors, 1)
	assert.Nil(t, repo.replaced, "a rejected import never reaches storage")
}
