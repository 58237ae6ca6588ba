package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. They mirror the lookup
// and not-found semantics of the GORM implementations.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByNationalID(_ context.Context, nationalID string) (*models.User, error) {
	for _, u := range r.users {
		if u.NationalID == nationalID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	_, err := r.GetByNationalID(ctx, nationalID)
	return err == nil, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	t, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
		}
	}
	return nil
}

type fakeProjectRepo struct {
	projects  map[uint]*models.Project
	flatTypes map[uint][]*models.FlatTypeDetails
	nextID    uint
	saveErr   error

	// copyOnRead makes GetFlatType hand out a fresh copy per call, the
	// way the GORM repository scans each query into a new struct, with
	// SaveFlatType writing the copy back. readSignal, when set, is
	// closed on the first GetFlatType call.
	copyOnRead bool
	readSignal chan struct{}
	signalOnce sync.Once
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:  make(map[uint]*models.Project),
		flatTypes: make(map[uint][]*models.FlatTypeDetails),
		nextID:    1,
	}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	project.ID = r.nextID
	r.nextID++
	for i := range project.FlatTypes {
		ft := project.FlatTypes[i]
		ft.ProjectID = project.ID
		r.flatTypes[project.ID] = append(r.flatTypes[project.ID], &ft)
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uint) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// mimic the Preload("FlatTypes") the real repository does
	project.FlatTypes = project.FlatTypes[:0]
	for _, ft := range r.flatTypes[id] {
		project.FlatTypes = append(project.FlatTypes, *ft)
	}
	return project, nil
}

func (r *fakeProjectRepo) GetByName(_ context.Context, name string) (*models.Project, error) {
	for _, p := range r.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) List(_ context.Context, offset, limit int) ([]*models.Project, int64, error) {
	var projects []*models.Project
	for _, p := range r.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, int64(len(projects)), nil
}

func (r *fakeProjectRepo) ListOpen(ctx context.Context, now time.Time) ([]*models.Project, error) {
	var projects []*models.Project
	for id, p := range r.projects {
		if p.Visible && p.IsOpen(now) {
			loaded, _ := r.GetByID(ctx, id)
			projects = append(projects, loaded)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *fakeProjectRepo) ListManagedBy(_ context.Context, managerID uint) ([]*models.Project, error) {
	var projects []*models.Project
	for _, p := range r.projects {
		if p.ManagerID == managerID {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uint) error {
	delete(r.projects, id)
	delete(r.flatTypes, id)
	return nil
}

func (r *fakeProjectRepo) GetFlatType(_ context.Context, projectID uint, ft domain.FlatType) (*models.FlatTypeDetails, error) {
	if r.readSignal != nil {
		r.signalOnce.Do(func() { close(r.readSignal) })
	}
	for _, details := range r.flatTypes[projectID] {
		if details.FlatType == ft {
			if r.copyOnRead {
				cp := *details
				return &cp, nil
			}
			return details, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) SaveFlatType(_ context.Context, details *models.FlatTypeDetails) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.copyOnRead {
		for _, stored := range r.flatTypes[details.ProjectID] {
			if stored.FlatType == details.FlatType {
				stored.AvailableUnits = details.AvailableUnits
			}
		}
	}
	return nil
}

func (r *fakeProjectRepo) ListFlatTypes(_ context.Context, projectID uint) ([]*models.FlatTypeDetails, error) {
	return r.flatTypes[projectID], nil
}

type fakeApplicationRepo struct {
	apps      map[uint]*models.Application
	nextID    uint
	updateErr error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uint]*models.Application), nextID: 1}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	app.ID = r.nextID
	r.nextID++
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uint) (*models.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

func (r *fakeApplicationRepo) GetByApplicantAndProject(_ context.Context, applicantID, projectID uint) (*models.Application, error) {
	for _, a := range r.apps {
		if a.ApplicantID == applicantID && a.ProjectID == projectID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID uint) ([]*models.Application, error) {
	var apps []*models.Application
	for _, a := range r.apps {
		if a.ApplicantID == applicantID {
			apps = append(apps, a)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID > apps[j].ID })
	return apps, nil
}

func (r *fakeApplicationRepo) ListByProject(_ context.Context, projectID uint, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	for _, a := range r.apps {
		if a.ProjectID == projectID {
			apps = append(apps, a)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, int64(len(apps)), nil
}

func (r *fakeApplicationRepo) ListByStatus(_ context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	for _, a := range r.apps {
		if a.Status == status {
			apps = append(apps, a)
		}
	}
	return apps, int64(len(apps)), nil
}

func (r *fakeApplicationRepo) CountActive(_ context.Context, projectID uint, ft domain.FlatType) (int64, error) {
	var count int64
	for _, a := range r.apps {
		if a.ProjectID == projectID && a.FlatType == ft && a.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.Application) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) ListBooked(_ context.Context, filter *repositories.BookedFilter) ([]*models.Application, error) {
	var apps []*models.Application
	for _, a := range r.apps {
		if a.Status != domain.StatusBooked {
			continue
		}
		if filter != nil {
			if filter.ProjectID != nil && a.ProjectID != *filter.ProjectID {
				continue
			}
			if filter.FlatType != nil && a.FlatType != *filter.FlatType {
				continue
			}
		}
		apps = append(apps, a)
	}
	return apps, nil
}

type fakeRegistrationRepo struct {
	regs   map[uint]*models.OfficerRegistration
	nextID uint
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[uint]*models.OfficerRegistration), nextID: 1}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.OfficerRegistration) error {
	reg.ID = r.nextID
	r.nextID++
	r.regs[reg.ID] = reg
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id uint) (*models.OfficerRegistration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

func (r *fakeRegistrationRepo) GetByOfficerAndProject(_ context.Context, officerID, projectID uint) (*models.OfficerRegistration, error) {
	for _, reg := range r.regs {
		if reg.OfficerID == officerID && reg.ProjectID == projectID {
			return reg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRegistrationRepo) GetApprovedByOfficer(_ context.Context, officerID uint) (*models.OfficerRegistration, error) {
	for _, reg := range r.regs {
		if reg.OfficerID == officerID && reg.Status == domain.RegistrationApproved {
			return reg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRegistrationRepo) ListByProject(_ context.Context, projectID uint) ([]*models.OfficerRegistration, error) {
	var regs []*models.OfficerRegistration
	for _, reg := range r.regs {
		if reg.ProjectID == projectID {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (r *fakeRegistrationRepo) ListByOfficer(_ context.Context, officerID uint) ([]*models.OfficerRegistration, error) {
	var regs []*models.OfficerRegistration
	for _, reg := range r.regs {
		if reg.OfficerID == officerID {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (r *fakeRegistrationRepo) CountApprovedByProject(_ context.Context, projectID uint) (int64, error) {
	var count int64
	for _, reg := range r.regs {
		if reg.ProjectID == projectID && reg.Status == domain.RegistrationApproved {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) Update(_ context.Context, reg *models.OfficerRegistration) error {
	r.regs[reg.ID] = reg
	return nil
}

type fakeEnquiryRepo struct {
	enquiries map[uint]*models.Enquiry
	nextID    uint
}

func newFakeEnquiryRepo() *fakeEnquiryRepo {
	return &fakeEnquiryRepo{enquiries: make(map[uint]*models.Enquiry), nextID: 1}
}

func (r *fakeEnquiryRepo) Create(_ context.Context, enquiry *models.Enquiry) error {
	enquiry.ID = r.nextID
	r.nextID++
	r.enquiries[enquiry.ID] = enquiry
	return nil
}

func (r *fakeEnquiryRepo) GetByID(_ context.Context, id uint) (*models.Enquiry, error) {
	enquiry, ok := r.enquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return enquiry, nil
}

func (r *fakeEnquiryRepo) ListByApplicant(_ context.Context, applicantID uint) ([]*models.Enquiry, error) {
	var enquiries []*models.Enquiry
	for _, e := range r.enquiries {
		if e.ApplicantID == applicantID {
			enquiries = append(enquiries, e)
		}
	}
	return enquiries, nil
}

func (r *fakeEnquiryRepo) ListByProject(_ context.Context, projectID uint) ([]*models.Enquiry, error) {
	var enquiries []*models.Enquiry
	for _, e := range r.enquiries {
		if e.ProjectID == projectID {
			enquiries = append(enquiries, e)
		}
	}
	return enquiries, nil
}

func (r *fakeEnquiryRepo) List(_ context.Context, offset, limit int) ([]*models.Enquiry, int64, error) {
	var enquiries []*models.Enquiry
	for _, e := range r.enquiries {
		enquiries = append(enquiries, e)
	}
	return enquiries, int64(len(enquiries)), nil
}

func (r *fakeEnquiryRepo) Update(_ context.Context, enquiry *models.Enquiry) error {
	r.enquiries[enquiry.ID] = enquiry
	return nil
}

func (r *fakeEnquiryRepo) Delete(_ context.Context, id uint) error {
	delete(r.enquiries, id)
	return nil
}

type fakeTransitionLogRepo struct {
	logs []*models.TransitionLog
}

func newFakeTransitionLogRepo() *fakeTransitionLogRepo {
	return &fakeTransitionLogRepo{}
}

func (r *fakeTransitionLogRepo) Create(_ context.Context, log *models.TransitionLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeTransitionLogRepo) ListByApplication(_ context.Context, applicationID uint) ([]*models.TransitionLog, error) {
	var logs []*models.TransitionLog
	for _, l := range r.logs {
		if l.ApplicationID == applicationID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}
