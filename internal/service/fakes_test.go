package service

import (
	"context"
	"sync"
	"time"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

// Фейковые репозитории: ненастроенный метод — ошибка теста, а не тихий ноль.

type fakeAppointmentRepo struct {
	createFn           func(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, durationMinutes int, price float64) (int64, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.Appointment, error)
	updateStatusFn     func(ctx context.Context, id int64, status domain.AppointmentStatus) error
	rescheduleFn       func(ctx context.Context, id int64, startTime time.Time) error
	listFn             func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	countByFilterFn    func(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	listForMasterDayFn func(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error)
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, durationMinutes int, price float64) (int64, error) {
	if f.createFn == nil {
		panic("Create не настроен")
	}
	return f.createFn(ctx, clientID, dto, durationMinutes, price)
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.getByIDFn == nil {
		panic("GetByID не настроен")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if f.updateStatusFn == nil {
		panic("UpdateStatus не настроен")
	}
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeAppointmentRepo) Reschedule(ctx context.Context, id int64, startTime time.Time) error {
	if f.rescheduleFn == nil {
		panic("Reschedule не настроен")
	}
	return f.rescheduleFn(ctx, id, startTime)
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("List не настроен")
	}
	return f.listFn(ctx, filter)
}

func (f *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	if f.countByFilterFn == nil {
		panic("CountByFilter не настроен")
	}
	return f.countByFilterFn(ctx, filter)
}

func (f *fakeAppointmentRepo) ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error) {
	if f.listForMasterDayFn == nil {
		panic("ListForMasterDay не настроен")
	}
	return f.listForMasterDayFn(ctx, masterID, day)
}

type fakeMasterRepo struct {
	createFn            func(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error)
	getByIDFn           func(ctx context.Context, id int64) (*domain.Master, error)
	getByUserIDFn       func(ctx context.Context, userID int64) (*domain.Master, error)
	getBySimplyBookIDFn func(ctx context.Context, sbID int64) (*domain.Master, error)
	updateFn            func(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error
	updatePhotoFn       func(ctx context.Context, id int64, photoURL string) error
	deleteFn            func(ctx context.Context, id int64) error
	listFn              func(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error)
}

func (f *fakeMasterRepo) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create не настроен")
	}
	return f.createFn(ctx, userID, dto)
}

func (f *fakeMasterRepo) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	if f.getByIDFn == nil {
		panic("GetByID не настроен")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeMasterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	if f.getByUserIDFn == nil {
		panic("GetByUserID не настроен")
	}
	return f.getByUserIDFn(ctx, userID)
}

func (f *fakeMasterRepo) GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Master, error) {
	if f.getBySimplyBookIDFn == nil {
		panic("GetBySimplyBookID не настроен")
	}
	return f.getBySimplyBookIDFn(ctx, sbID)
}

func (f *fakeMasterRepo) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	if f.updateFn == nil {
		panic("Update не настроен")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeMasterRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	if f.updatePhotoFn == nil {
		panic("UpdatePhoto не настроен")
	}
	return f.updatePhotoFn(ctx, id, photoURL)
}

func (f *fakeMasterRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete не настроен")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeMasterRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error) {
	if f.listFn == nil {
		panic("List не настроен")
	}
	return f.listFn(ctx, onlyActive, limit, offset)
}

type fakeUserRepo struct {
	createFn         func(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	getByPhoneFn     func(ctx context.Context, phone string) (*domain.User, error)
	updateFn         func(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	updatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
	deleteFn         func(ctx context.Context, id int64) error
	listFn           func(ctx context.Context, limit, offset int) ([]domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user domain.CreateUserDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create не настроен")
	}
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.getByIDFn == nil {
		panic("GetByID не настроен")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getByEmailFn == nil {
		panic("GetByEmail не настроен")
	}
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if f.getByPhoneFn == nil {
		panic("GetByPhone не настроен")
	}
	return f.getByPhoneFn(ctx, phone)
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error {
	if f.updateFn == nil {
		panic("Update не настроен")
	}
	return f.updateFn(ctx, id, user)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if f.updatePasswordFn == nil {
		panic("UpdatePassword не настроен")
	}
	return f.updatePasswordFn(ctx, id, passwordHash)
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete не настроен")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if f.listFn == nil {
		panic("List не настроен")
	}
	return f.listFn(ctx, limit, offset)
}

type fakeOfferingRepo struct {
	createFn            func(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error)
	getByIDFn           func(ctx context.Context, id int64) (*domain.Offering, error)
	getBySimplyBookIDFn func(ctx context.Context, sbID int64) (*domain.Offering, error)
	updateFn            func(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error
	deleteFn            func(ctx context.Context, id int64) error
	listFn              func(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error)
}

func (f *fakeOfferingRepo) Create(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create не настроен")
	}
	return f.createFn(ctx, dto)
}

func (f *fakeOfferingRepo) GetByID(ctx context.Context, id int64) (*domain.Offering, error) {
	if f.getByIDFn == nil {
		panic("GetByID не настроен")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeOfferingRepo) GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Offering, error) {
	if f.getBySimplyBookIDFn == nil {
		panic("GetBySimplyBookID не настроен")
	}
	return f.getBySimplyBookIDFn(ctx, sbID)
}

func (f *fakeOfferingRepo) Update(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error {
	if f.updateFn == nil {
		panic("Update не настроен")
	}
	return f.updateFn(ctx, id, dto)
}

func (f *fakeOfferingRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete не настроен")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeOfferingRepo) List(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error) {
	if f.listFn == nil {
		panic("List не настроен")
	}
	return f.listFn(ctx, filter)
}

type fakeUnavailabilityRepo struct {
	createFn           func(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.UnavailabilityPeriod, error)
	deleteFn           func(ctx context.Context, id int64) error
	listFn             func(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error)
	listForMasterDayFn func(ctx context.Context, masterID int64, day time.Time) ([]domain.UnavailabilityPeriod, error)
}

func (f *fakeUnavailabilityRepo) Create(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error) {
	if f.createFn == nil {
		panic("Create не настроен")
	}
	return f.createFn(ctx, masterID, dto)
}

func (f *fakeUnavailabilityRepo) GetByID(ctx context.Context, id int64) (*domain.UnavailabilityPeriod, error) {
	if f.getByIDFn == nil {
		panic("GetByID не настроен")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUnavailabilityRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete не настроен")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeUnavailabilityRepo) List(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error) {
	if f.listFn == nil {
		panic("List не настроен")
	}
	return f.listFn(ctx, filter)
}

func (f *fakeUnavailabilityRepo) ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.UnavailabilityPeriod, error) {
	if f.listForMasterDayFn == nil {
		panic("ListForMasterDay не настроен")
	}
	return f.listForMasterDayFn(ctx, masterID, day)
}

type fakeWorkingHoursRepo struct {
	getWeekFn      func(ctx context.Context, masterID int64) ([]domain.WorkingHours, error)
	getByWeekdayFn func(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error)
	upsertFn       func(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error
	deleteFn       func(ctx context.Context, masterID int64, weekday int) error
}

func (f *fakeWorkingHoursRepo) GetWeek(ctx context.Context, masterID int64) ([]domain.WorkingHours, error) {
	if f.getWeekFn == nil {
		panic("GetWeek не настроен")
	}
	return f.getWeekFn(ctx, masterID)
}

func (f *fakeWorkingHoursRepo) GetByWeekday(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
	if f.getByWeekdayFn == nil {
		panic("GetByWeekday не настроен")
	}
	return f.getByWeekdayFn(ctx, masterID, weekday)
}

func (f *fakeWorkingHoursRepo) Upsert(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error {
	if f.upsertFn == nil {
		panic("Upsert не настроен")
	}
	return f.upsertFn(ctx, masterID, dto)
}

func (f *fakeWorkingHoursRepo) Delete(ctx context.Context, masterID int64, weekday int) error {
	if f.deleteFn == nil {
		panic("Delete не настроен")
	}
	return f.deleteFn(ctx, masterID, weekday)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.ActionToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]domain.ActionToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token domain.ActionToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokenRepo) Get(ctx context.Context, token string, kind domain.ActionTokenKind) (*domain.ActionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.Kind != kind {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, t := range f.tokens {
		if t.ExpiresAt.Before(now) {
			delete(f.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAuthRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{sessions: make(map[string]domain.Session)}
}

func (f *fakeAuthRepo) CreateSession(ctx context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeAuthRepo) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.RefreshToken == refreshToken {
			session := s
			return &session, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAuthRepo) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeAuthRepo) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

type fakeAvailabilityService struct {
	freeSlotsFn     func(ctx context.Context, masterID int64, date time.Time, offeringID int64) ([]domain.Slot, error)
	checkConflictFn func(ctx context.Context, masterID int64, start time.Time, durationMinutes int, excludeID *int64) (bool, error)
}

func (f *fakeAvailabilityService) FreeSlots(ctx context.Context, masterID int64, date time.Time, offeringID int64) ([]domain.Slot, error) {
	if f.freeSlotsFn == nil {
		panic("FreeSlots не настроен")
	}
	return f.freeSlotsFn(ctx, masterID, date, offeringID)
}

func (f *fakeAvailabilityService) CheckConflict(ctx context.Context, masterID int64, start time.Time, durationMinutes int, excludeID *int64) (bool, error) {
	if f.checkConflictFn == nil {
		panic("CheckConflict не настроен")
	}
	return f.checkConflictFn(ctx, masterID, start, durationMinutes, excludeID)
}

type capturingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *capturingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *capturingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *capturingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
