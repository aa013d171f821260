package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/catalog"
	"github.com/gradeufla/planner-api/internal/dto"
	"github.com/gradeufla/planner-api/internal/models"
	"github.com/gradeufla/planner-api/internal/planner"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
)

// planningSession holds one student's working schedule and completion
// state. The per-session mutex serializes mutations, so the engine always
// sees a quiescent schedule.
type planningSession struct {
	mu        sync.Mutex
	id        string
	termIndex int
	engine    *planner.Engine
	schedule  *models.Schedule
	state     models.CompletionState
	createdAt time.Time
	expiresAt time.Time
}

type sessionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*planningSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:   ttl,
		items: make(map[string]*planningSession),
	}
}

func (s *sessionStore) Save(session *planningSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.id] = session
}

// Get returns the live session, expiring it lazily. The second value is
// true when the id existed but its TTL has passed.
func (s *sessionStore) Get(id string) (*planningSession, bool) {
	s.mu.RLock()
	session, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(session.expiresAt) {
		s.Delete(id)
		return nil, true
	}
	return session, false
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep drops every expired session and reports how many remain.
func (s *sessionStore) Sweep() (removed, active int) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.items {
		if now.After(session.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, len(s.items)
}

// SessionService owns planning sessions and runs every schedule operation
// through the mutation engine.
type SessionService struct {
	store      *sessionStore
	catalog    *CatalogService
	metrics    *MetricsService
	validator  *validator.Validate
	defaultCap int
	logger     *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(catalogSvc *CatalogService, metrics *MetricsService, validate *validator.Validate, defaultCap int, ttl time.Duration, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if defaultCap <= 0 {
		defaultCap = 32
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:      newSessionStore(ttl),
		catalog:    catalogSvc,
		metrics:    metrics,
		validator:  validate,
		defaultCap: defaultCap,
		logger:     logger,
	}
}

// Create opens a new planning session.
func (s *SessionService) Create(req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session request")
	}

	creditCap := req.CreditCap
	if creditCap <= 0 {
		creditCap = s.defaultCap
	}
	termIndex := req.TermIndex
	if termIndex <= 0 {
		termIndex = 1
	}

	now := time.Now().UTC()
	session := &planningSession{
		id:        uuid.NewString(),
		termIndex: termIndex,
		engine:    planner.NewEngine(creditCap, s.logger),
		schedule:  models.NewSchedule(),
		state:     models.NewCompletionState(),
		createdAt: now,
		expiresAt: now.Add(s.store.ttl),
	}
	s.store.Save(session)
	s.metrics.SetActiveSessions(s.store.Len())
	s.logger.Info("session created",
		zap.String("session_id", session.id),
		zap.Int("term_index", termIndex),
		zap.Int("credit_cap", creditCap),
	)
	return s.snapshot(session), nil
}

// SweepExpired drops abandoned sessions. Lazy expiry only fires on reads,
// so a periodic sweep keeps the store and the gauge honest.
func (s *SessionService) SweepExpired() int {
	removed, active := s.store.Sweep()
	s.metrics.SetActiveSessions(active)
	if removed > 0 {
		s.logger.Info("expired sessions swept", zap.Int("removed", removed), zap.Int("active", active))
	}
	return removed
}

func (s *SessionService) find(id string) (*planningSession, error) {
	session, expired := s.store.Get(id)
	if session == nil {
		s.metrics.SetActiveSessions(s.store.Len())
		if expired {
			return nil, appErrors.ErrSessionExpired
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "planning session not found")
	}
	return session, nil
}

func (s *SessionService) snapshot(session *planningSession) *dto.SessionResponse {
	entries := make([]*models.ScheduleEntry, 0, len(session.schedule.Entries))
	for _, entry := range session.schedule.Entries {
		copied := *entry
		entries = append(entries, &copied)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SubjectCode < entries[j].SubjectCode
	})

	return &dto.SessionResponse{
		ID:           session.id,
		TermIndex:    session.termIndex,
		CreditCap:    session.engine.CreditCap(),
		TotalCredits: session.schedule.TotalCredits(),
		Entries:      entries,
		Completed:    sortedKeys(session.state.Completed),
		Confirmed:    sortedKeys(session.state.ConfirmedMinimum),
		CreatedAt:    session.createdAt,
		ExpiresAt:    session.expiresAt,
	}
}

// Get returns the session snapshot.
func (s *SessionService) Get(id string) (*dto.SessionResponse, error) {
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(session), nil
}

// SetCompleted replaces the completed-code set wholesale.
func (s *SessionService) SetCompleted(id string, codes []string) (*dto.SessionResponse, error) {
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.state.Completed = make(map[string]bool, len(codes))
	for _, raw := range codes {
		if code := catalog.NormalizeCode(raw); code != "" {
			session.state.Completed[code] = true
		}
	}
	return s.snapshot(session), nil
}

// ToggleCompleted flips one completed code. Unmarking cascades: completed
// subjects whose prerequisites mention the unmarked code lose their mark
// too, computed as a fixed point over the catalog.
func (s *SessionService) ToggleCompleted(ctx context.Context, id, rawCode string) (*dto.ToggleCompletedResponse, error) {
	code := catalog.NormalizeCode(rawCode)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject code is required")
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}

	// Fetched before taking the session lock; the cascade needs the full
	// catalog and the completed-set read must happen under the mutex.
	subjects, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.state.Completed[code] {
		session.state.Completed[code] = true
		return &dto.ToggleCompletedResponse{Code: code, Completed: true}, nil
	}

	delete(session.state.Completed, code)
	unmarked := cascadeUnmark(code, session.state.Completed, subjects)
	return &dto.ToggleCompletedResponse{Code: code, Completed: false, Unmarked: unmarked}, nil
}

// cascadeUnmark removes completion marks from subjects that can no longer
// stand: any completed subject naming an unmarked code in any severity
// list is unmarked too, until nothing changes.
func cascadeUnmark(root string, completed map[string]bool, subjects []models.Subject) []string {
	byCode := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		byCode[subject.Code] = subject
	}

	gone := map[string]bool{root: true}
	var unmarked []string
	for {
		changed := false
		for code := range completed {
			subject, ok := byCode[code]
			if !ok {
				continue
			}
			for _, list := range [][]string{
				subject.Prerequisites.Strong,
				subject.Prerequisites.Minimum,
				subject.Prerequisites.Coreq,
			} {
				for _, dep := range list {
					if gone[dep] {
						delete(completed, code)
						gone[code] = true
						unmarked = append(unmarked, code)
						changed = true
						break
					}
				}
				if gone[code] {
					break
				}
			}
		}
		if !changed {
			break
		}
	}
	sort.Strings(unmarked)
	return unmarked
}

// ConfirmMinimum records a one-time confirmation for a minimum-severity
// code. Confirmations only accumulate; there is no undo.
func (s *SessionService) ConfirmMinimum(id, rawCode string) (*dto.SessionResponse, error) {
	code := catalog.NormalizeCode(rawCode)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject code is required")
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.state.ConfirmedMinimum[code] = true
	return s.snapshot(session), nil
}

// Evaluate previews the prerequisite gate for a subject without mutating
// anything.
func (s *SessionService) Evaluate(ctx context.Context, id, subjectCode string) (*dto.EvaluateResponse, error) {
	subject, err := s.catalog.Get(ctx, subjectCode)
	if err != nil {
		return nil, err
	}
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	gate := planner.Evaluate(*subject, session.state, session.schedule.Codes())
	return &dto.EvaluateResponse{
		SubjectCode: subject.Code,
		Admissible:  gate.Admissible(),
		Gate:        gate,
	}, nil
}

// ConflictCheck previews whether a section would fit the schedule.
func (s *SessionService) ConflictCheck(ctx context.Context, id string, req dto.ConflictCheckRequest) (*planner.ConflictResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check request")
	}

	subject, err := s.catalog.Get(ctx, req.SubjectCode)
	if err != nil {
		return nil, err
	}
	section, ok := subject.Section(req.SectionID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found for subject")
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	result := planner.CheckConflict(section, session.schedule)
	return &result, nil
}

// ANPSlot previews the next free Saturday pool slot.
func (s *SessionService) ANPSlot(id string) (*dto.ANPSlotResponse, error) {
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	slot, ok := planner.FirstFreeANPSlot(session.schedule)
	if !ok {
		return &dto.ANPSlotResponse{Available: false}, nil
	}
	slotRange := planner.ANPSlotRange(slot)
	return &dto.ANPSlotResponse{Available: true, Slot: slot, Range: &slotRange}, nil
}

// AddEntry places a (subject, section) pair through the mutation engine.
// Rejections are part of the response, not errors.
func (s *SessionService) AddEntry(ctx context.Context, id string, req dto.AddEntryRequest) (*dto.AddEntryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid add request")
	}

	subject, err := s.catalog.Get(ctx, req.SubjectCode)
	if err != nil {
		return nil, err
	}
	section, ok := subject.Section(req.SectionID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found for subject")
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	entry, rejection := session.engine.Add(session.schedule, *subject, section, session.state)
	if rejection != nil {
		s.metrics.RecordMutation("add", string(rejection.Reason))
		return &dto.AddEntryResponse{
			OK:           false,
			TotalCredits: session.schedule.TotalCredits(),
			Rejection:    rejection,
		}, nil
	}

	s.metrics.RecordMutation("add", "committed")
	copied := *entry
	return &dto.AddEntryResponse{
		OK:           true,
		Entry:        &copied,
		TotalCredits: session.schedule.TotalCredits(),
	}, nil
}

// RemoveEntry takes a subject out of the schedule, cascading through
// co-requisite links. Removing an absent code succeeds with an empty list.
func (s *SessionService) RemoveEntry(id, rawCode string) (*dto.RemoveEntryResponse, error) {
	code := catalog.NormalizeCode(rawCode)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject code is required")
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	removed := session.engine.Remove(session.schedule, code)
	s.metrics.RecordMutation("remove", "committed")
	return &dto.RemoveEntryResponse{
		RemovedCodes: removed,
		TotalCredits: session.schedule.TotalCredits(),
	}, nil
}

// Entries returns a sorted copy of the placed entries, for exports.
func (s *SessionService) Entries(id string) ([]*models.ScheduleEntry, error) {
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(session).Entries, nil
}

// Availability groups what the student can plan next: required subjects of
// the session's term, pending required subjects from earlier terms, and
// admissible electives by subgroup.
func (s *SessionService) Availability(ctx context.Context, id string) (*dto.AvailabilityResponse, error) {
	subjects, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	scheduleCodes := session.schedule.Codes()
	var currentTerm, pending []models.Subject
	electives := make(map[string][]models.Subject)

	for _, subject := range subjects {
		if session.state.Completed[subject.Code] || scheduleCodes[subject.Code] {
			continue
		}
		switch subject.Kind {
		case models.SubjectRequired:
			switch {
			case subject.TermIndex == session.termIndex:
				currentTerm = append(currentTerm, subject)
			case subject.TermIndex > 0 && subject.TermIndex < session.termIndex:
				pending = append(pending, subject)
			}
		case models.SubjectElective:
			if planner.Evaluate(subject, session.state, scheduleCodes).Admissible() {
				group := subject.Subgroup
				if group == "" {
					group = "geral"
				}
				electives[group] = append(electives[group], subject)
			}
		}
	}

	groups := []dto.AvailabilityGroup{
		{Key: "current-term", Label: "Período atual", Subjects: currentTerm},
		{Key: "pending", Label: "Pendentes de períodos anteriores", Subjects: pending},
	}
	for _, key := range sortedGroupKeys(electives) {
		groups = append(groups, dto.AvailabilityGroup{
			Key:      "elective:" + key,
			Label:    "Eletivas (" + key + ")",
			Subjects: electives[key],
		})
	}

	return &dto.AvailabilityResponse{TermIndex: session.termIndex, Groups: groups}, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedGroupKeys(groups map[string][]models.Subject) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
