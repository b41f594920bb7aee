package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/jobs"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (*txProviderMock, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (p *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return p.db.BeginTxx(ctx, opts)
}

type idSeq struct {
	mu sync.Mutex
	n  int
}

// next returns deterministic UUID-shaped ids so validID accepts them.
func (s *idSeq) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.n)
}

func testID(n int) string {
	return fmt.Sprintf("11111111-0000-4000-8000-%012d", n)
}

type fakeUserRepo struct {
	ids       *idSeq
	items     map[string]*models.User
	createErr error
	deleted   []string
}

func newFakeUserRepo(ids *idSeq) *fakeUserRepo {
	return &fakeUserRepo{ids: ids, items: map[string]*models.User{}}
}

func (f *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	if u, ok := f.items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	return f.FindByID(ctx, exec, id)
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error) {
	for _, u := range f.items {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	for _, u := range f.items {
		if u.DocumentNumber == document && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == "" {
		user.ID = f.ids.next()
	}
	user.Email = strings.ToLower(user.Email)
	cp := *user
	f.items[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if _, ok := f.items[user.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *user
	f.items[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTeacherRepo struct {
	ids       *idSeq
	items     map[string]*models.Teacher
	createErr error
	deleted   []string
}

func newFakeTeacherRepo(ids *idSeq) *fakeTeacherRepo {
	return &fakeTeacherRepo{ids: ids, items: map[string]*models.Teacher{}}
}

func (f *fakeTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, t := range f.items {
		if filter.Specialty != "" {
			found := false
			for _, s := range t.Specialties {
				if strings.EqualFold(s, filter.Specialty) {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error) {
	if t, ok := f.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherRepo) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error) {
	return f.FindByID(ctx, exec, id)
}

func (f *fakeTeacherRepo) FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Teacher, error) {
	for _, t := range f.items {
		if t.UserID != nil && *t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherRepo) FindByEmailOrDocument(ctx context.Context, exec sqlx.ExtContext, email, document string) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range f.items {
		if strings.EqualFold(t.Email, email) || t.DocumentNumber == document {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error) {
	for _, t := range f.items {
		if strings.EqualFold(t.Email, email) && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeacherRepo) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	for _, t := range f.items {
		if t.DocumentNumber == document && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeacherRepo) ExistsByUserID(ctx context.Context, exec sqlx.ExtContext, userID, excludeID string) (bool, error) {
	for _, t := range f.items {
		if t.UserID != nil && *t.UserID == userID && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeacherRepo) Create(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error {
	if f.createErr != nil {
		return f.createErr
	}
	if teacher.ID == "" {
		teacher.ID = f.ids.next()
	}
	cp := *teacher
	f.items[teacher.ID] = &cp
	return nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error {
	if _, ok := f.items[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *teacher
	f.items[teacher.ID] = &cp
	return nil
}

func (f *fakeTeacherRepo) UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error {
	t, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.Status = status
	return nil
}

func (f *fakeTeacherRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRoleRepo struct {
	items map[string]models.Role
	lists int
}

func newFakeRoleRepo() *fakeRoleRepo {
	repo := &fakeRoleRepo{items: map[string]models.Role{}}
	for i, name := range []string{models.RoleNameAdmin, models.RoleNameTeacher, models.RoleNameClient, models.RoleNameBeneficiary} {
		id := testID(900 + i)
		repo.items[id] = models.Role{ID: id, Name: name}
	}
	return repo
}

func (f *fakeRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	f.lists++
	out := make([]models.Role, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoleRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Role, error) {
	if r, ok := f.items[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRoleRepo) FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Role, error) {
	for _, r := range f.items {
		if strings.EqualFold(r.Name, name) {
			cp := r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRoleRepo) EnsureSeeded(ctx context.Context, names []string) error {
	return nil
}

func (f *fakeRoleRepo) idOf(name string) string {
	r, _ := f.FindByName(context.Background(), nil, name)
	if r == nil {
		return ""
	}
	return r.ID
}

type fakeAssignmentRepo struct {
	ids       *idSeq
	roles     *fakeRoleRepo
	items     []models.RoleAssignment
	createErr error
}

func newFakeAssignmentRepo(ids *idSeq, roles *fakeRoleRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{ids: ids, roles: roles}
}

func (f *fakeAssignmentRepo) detail(a models.RoleAssignment) models.RoleAssignmentDetail {
	d := models.RoleAssignmentDetail{RoleAssignment: a}
	if r, ok := f.roles.items[a.RoleID]; ok {
		d.RoleName = r.Name
	}
	return d
}

func (f *fakeAssignmentRepo) List(ctx context.Context) ([]models.RoleAssignmentDetail, error) {
	out := make([]models.RoleAssignmentDetail, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, f.detail(a))
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.RoleAssignmentDetail, error) {
	var out []models.RoleAssignmentDetail
	for _, a := range f.items {
		if a.UserID == userID {
			out = append(out, f.detail(a))
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) FindActive(ctx context.Context, exec sqlx.ExtContext, userID, roleID string) (*models.RoleAssignment, error) {
	for _, a := range f.items {
		if a.UserID == userID && a.RoleID == roleID && a.Active {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentRepo) FindByID(ctx context.Context, id string) (*models.RoleAssignment, error) {
	for _, a := range f.items {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, exec sqlx.ExtContext, ra *models.RoleAssignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if ra.ID == "" {
		ra.ID = f.ids.next()
	}
	f.items = append(f.items, *ra)
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeAssignmentRepo) DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) (int64, error) {
	kept := f.items[:0]
	var removed int64
	for _, a := range f.items {
		if a.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	f.items = kept
	return removed, nil
}

func (f *fakeAssignmentRepo) roleNamesFor(userID string) []string {
	var names []string
	for _, a := range f.items {
		if a.UserID == userID {
			names = append(names, f.roles.items[a.RoleID].Name)
		}
	}
	return names
}

type fakeScheduleRepo struct {
	classes []models.ClassSchedule
	blocks  []models.TeacherSchedule
}

func (f *fakeScheduleRepo) ClassSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string) ([]models.ClassSchedule, error) {
	var out []models.ClassSchedule
	for _, c := range f.classes {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ClassSchedulesBySales(ctx context.Context, exec sqlx.ExtContext, saleIDs []string) ([]models.ClassSchedule, error) {
	var out []models.ClassSchedule
	for _, c := range f.classes {
		for _, id := range saleIDs {
			if c.SaleID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) TeacherSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string, statuses ...string) ([]models.TeacherSchedule, error) {
	var out []models.TeacherSchedule
	for _, b := range f.blocks {
		if b.TeacherID != teacherID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if b.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeBeneficiaryRepo struct {
	ids   *idSeq
	items map[string]*models.Beneficiary
}

func newFakeBeneficiaryRepo(ids *idSeq) *fakeBeneficiaryRepo {
	return &fakeBeneficiaryRepo{ids: ids, items: map[string]*models.Beneficiary{}}
}

func (f *fakeBeneficiaryRepo) List(ctx context.Context, filter models.BeneficiaryFilter) ([]models.Beneficiary, int, error) {
	out := make([]models.Beneficiary, 0, len(f.items))
	for _, b := range f.items {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (f *fakeBeneficiaryRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Beneficiary, error) {
	if b, ok := f.items[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBeneficiaryRepo) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.Beneficiary, error) {
	var out []models.Beneficiary
	for _, b := range f.items {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBeneficiaryRepo) ListDependents(ctx context.Context, exec sqlx.ExtContext, clientID string) ([]models.Beneficiary, error) {
	var out []models.Beneficiary
	for _, b := range f.items {
		if b.ClientID == clientID && b.ID != clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBeneficiaryRepo) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	for _, b := range f.items {
		if b.DocumentNumber == document && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBeneficiaryRepo) Create(ctx context.Context, exec sqlx.ExtContext, b *models.Beneficiary) error {
	if b.ID == "" {
		b.ID = f.ids.next()
	}
	if b.ClientID == "" {
		b.ClientID = b.ID
	}
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBeneficiaryRepo) Update(ctx context.Context, b *models.Beneficiary) error {
	if _, ok := f.items[b.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBeneficiaryRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeSaleRepo struct {
	ids       *idSeq
	items     map[string]*models.Sale
	createErr error
	deleted   []string
}

func newFakeSaleRepo(ids *idSeq) *fakeSaleRepo {
	return &fakeSaleRepo{ids: ids, items: map[string]*models.Sale{}}
}

func (f *fakeSaleRepo) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error) {
	all, _ := f.ListAll(ctx, filter)
	return all, len(all), nil
}

func (f *fakeSaleRepo) ListAll(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, error) {
	out := make([]models.SaleDetail, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, models.SaleDetail{Sale: *s, BeneficiaryName: "Ana Gómez"})
	}
	return out, nil
}

func (f *fakeSaleRepo) GetDetail(ctx context.Context, id string) (*models.SaleDetail, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.SaleDetail{Sale: *s}, nil
}

func (f *fakeSaleRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Sale, error) {
	if s, ok := f.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSaleRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, s := range f.items {
		if s.SaleCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSaleRepo) ListByBeneficiaries(ctx context.Context, exec sqlx.ExtContext, beneficiaryIDs []string) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.items {
		for _, id := range beneficiaryIDs {
			if s.BeneficiaryID == id {
				out = append(out, *s)
			}
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.items {
		if s.CourseID != nil && *s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) ListByEnrollmentType(ctx context.Context, enrollmentTypeID string) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.items {
		if s.EnrollmentTypeID != nil && *s.EnrollmentTypeID == enrollmentTypeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) Create(ctx context.Context, exec sqlx.ExtContext, sale *models.Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	if sale.ID == "" {
		sale.ID = f.ids.next()
	}
	cp := *sale
	f.items[sale.ID] = &cp
	return nil
}

func (f *fakeSaleRepo) Update(ctx context.Context, sale *models.Sale) error {
	current, ok := f.items[sale.ID]
	if !ok || current.Status == models.SaleCancelled {
		return sql.ErrNoRows
	}
	cp := *sale
	f.items[sale.ID] = &cp
	return nil
}

func (f *fakeSaleRepo) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	s, ok := f.items[id]
	if !ok || s.Status == models.SaleCancelled {
		return sql.ErrNoRows
	}
	s.Status = models.SaleCancelled
	s.CancellationReason = &reason
	s.CancelledAt = &at
	return nil
}

func (f *fakeSaleRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCounterRepo struct {
	values  map[models.SaleType]int64
	nextErr error
	calls   int
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: map[models.SaleType]int64{}}
}

func (f *fakeCounterRepo) Next(ctx context.Context, exec sqlx.ExtContext, tag models.SaleType) (int64, error) {
	f.calls++
	if f.nextErr != nil {
		return 0, f.nextErr
	}
	f.values[tag]++
	return f.values[tag], nil
}

func (f *fakeCounterRepo) Current(ctx context.Context, tag models.SaleType) (int64, error) {
	return f.values[tag], nil
}

type fakePaymentRepo struct {
	items     []models.Payment
	createErr error
	cleaned   []string
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, *payment)
	return nil
}

func (f *fakePaymentRepo) ExistsForSale(ctx context.Context, saleID string) (bool, error) {
	for _, p := range f.items {
		if p.SaleID == saleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) ListBySale(ctx context.Context, saleID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.items {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) DeleteBySale(ctx context.Context, exec sqlx.ExtContext, saleID string) error {
	f.cleaned = append(f.cleaned, saleID)
	return nil
}

type fakeQueue struct {
	jobs []jobs.Job
}

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeCourseRepo struct {
	items map[string]*models.Course
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Course, error) {
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type fakeEnrollmentTypeRepo struct {
	items map[string]*models.EnrollmentType
}

func (f *fakeEnrollmentTypeRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentType, error) {
	if et, ok := f.items[id]; ok {
		cp := *et
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}
