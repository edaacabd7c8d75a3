package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/payments"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/search"
	"github.com/talesoul/talesoul-api/websocket"
)

// The fakes store values and hand out copies, so changes only persist through Save.

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[uint]models.User{}} }

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUsers) Save(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.rows {
		if filter.Role == nil || u.Role == *filter.Role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeUsers) add(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: email, Role: role, IsActive: true}
	if err := f.Create(context.Background(), u); err != nil {
		t.Fatalf("add user: %v", err)
	}
	return u
}

type fakeMentors struct {
	mu     sync.Mutex
	users  *fakeUsers
	nextID uint
	rows   map[uint]models.MentorProfile
}

func (f *fakeMentors) withUser(p models.MentorProfile) *models.MentorProfile {
	if u, err := f.users.FindByID(context.Background(), p.UserID); err == nil {
		p.User = *u
	}
	return &p
}

func (f *fakeMentors) FindByID(_ context.Context, id uint) (*models.MentorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.withUser(p), nil
}

func (f *fakeMentors) FindByUserID(_ context.Context, userID uint) (*models.MentorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.UserID == userID {
			return f.withUser(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMentors) CreateApplication(ctx context.Context, profile *models.MentorProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.UserID == profile.UserID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	profile.ID = f.nextID
	f.rows[profile.ID] = *profile
	if u, err := f.users.FindByID(ctx, profile.UserID); err == nil && u.Role == models.RoleUser {
		u.Role = models.RoleMentor
		_ = f.users.Save(ctx, u)
	}
	return nil
}

func (f *fakeMentors) Save(_ context.Context, profile *models.MentorProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *profile
	p.User = models.User{}
	f.rows[p.ID] = p
	return nil
}

func (f *fakeMentors) List(_ context.Context, status *models.MentorStatus, _ repository.Page) ([]models.MentorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MentorProfile
	for _, p := range f.rows {
		if status == nil || p.Status == *status {
			out = append(out, *f.withUser(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMentors) CountByStatus(_ context.Context, status models.MentorStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.rows {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeMentors) add(t *testing.T, user *models.User, rate float64, status models.MentorStatus) *models.MentorProfile {
	t.Helper()
	p := &models.MentorProfile{UserID: user.ID, HourlyRate: &rate, Status: status}
	if err := f.CreateApplication(context.Background(), p); err != nil {
		t.Fatalf("add mentor: %v", err)
	}
	return p
}

type fakeAvailability struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.AvailabilitySlot
}

func (f *fakeAvailability) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	slot.ID = f.nextID
	f.rows[slot.ID] = *slot
	return nil
}

func (f *fakeAvailability) FindByID(_ context.Context, id uint) (*models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeAvailability) Delete(_ context.Context, slot *models.AvailabilitySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, slot.ID)
	return nil
}

func (f *fakeAvailability) ListByMentor(_ context.Context, mentorProfileID uint, onlyAvailable bool) ([]models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range f.rows {
		if s.MentorID == mentorProfileID && (!onlyAvailable || s.IsAvailable) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBookings struct {
	mu     sync.Mutex
	users  *fakeUsers
	nextID uint
	rows   map[uint]models.Booking
}

func (f *fakeBookings) hydrate(b models.Booking) models.Booking {
	if u, err := f.users.FindByID(context.Background(), b.UserID); err == nil {
		b.User = *u
	}
	if u, err := f.users.FindByID(context.Background(), b.MentorID); err == nil {
		b.Mentor = *u
	}
	return b
}

func (f *fakeBookings) Create(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Now()
	f.rows[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) FindByID(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b = f.hydrate(b)
	return &b, nil
}

func (f *fakeBookings) Save(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) filter(keep func(models.Booking) bool) []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.rows {
		if keep(b) {
			out = append(out, f.hydrate(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out
}

func (f *fakeBookings) ListByRequester(_ context.Context, userID uint) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (f *fakeBookings) ListByMentor(_ context.Context, mentorUserID uint) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.MentorID == mentorUserID }), nil
}

func (f *fakeBookings) List(context.Context, repository.Page) ([]models.Booking, error) {
	return f.filter(func(models.Booking) bool { return true }), nil
}

func (f *fakeBookings) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeBookings) ListByStatusScheduledIn(_ context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool {
		return b.Status == status && !b.ScheduledAt.Before(from) && b.ScheduledAt.Before(to)
	}), nil
}

func (f *fakeBookings) status(t *testing.T, id uint) models.BookingStatus {
	t.Helper()
	b, err := f.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find booking %d: %v", id, err)
	}
	return b.Status
}

type fakeCourses struct {
	mu     sync.Mutex
	users  *fakeUsers
	nextID uint
	rows   map[uint]models.Course
}

func (f *fakeCourses) hydrate(c models.Course) *models.Course {
	if u, err := f.users.FindByID(context.Background(), c.InstructorID); err == nil {
		c.Instructor = *u
	}
	return &c
}

func (f *fakeCourses) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	course.ID = f.nextID
	f.rows[course.ID] = *course
	*course = *f.hydrate(*course)
	return nil
}

func (f *fakeCourses) FindByID(_ context.Context, id uint) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.hydrate(c), nil
}

func (f *fakeCourses) Save(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[course.ID] = *course
	return nil
}

func (f *fakeCourses) Delete(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, course.ID)
	return nil
}

func (f *fakeCourses) List(_ context.Context, publishedOnly bool, _ repository.Page) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.rows {
		if !publishedOnly || c.IsPublished {
			out = append(out, *f.hydrate(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourses) ListByInstructor(_ context.Context, instructorID uint) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.rows {
		if c.InstructorID == instructorID {
			out = append(out, *f.hydrate(c))
		}
	}
	return out, nil
}

func (f *fakeCourses) Count(_ context.Context, publishedOnly bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.rows {
		if !publishedOnly || c.IsPublished {
			n++
		}
	}
	return n, nil
}

func (f *fakeCourses) add(t *testing.T, instructor *models.User, title string, price float64, published bool) *models.Course {
	t.Helper()
	c := &models.Course{InstructorID: instructor.ID, Title: title, Price: price, IsPublished: published}
	if err := f.Create(context.Background(), c); err != nil {
		t.Fatalf("add course: %v", err)
	}
	return c
}

type fakeEnrollments struct {
	mu      sync.Mutex
	users   *fakeUsers
	courses *fakeCourses
	nextID  uint
	rows    map[uint]models.CourseEnrollment
}

func (f *fakeEnrollments) Create(_ context.Context, e *models.CourseEnrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	e.ID = f.nextID
	e.EnrolledAt = time.Now()
	f.rows[e.ID] = *e
	return nil
}

func (f *fakeEnrollments) FindByID(ctx context.Context, id uint) (*models.CourseEnrollment, error) {
	f.mu.Lock()
	e, ok := f.rows[id]
	f.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c, err := f.courses.FindByID(ctx, e.CourseID); err == nil {
		e.Course = *c
	}
	if u, err := f.users.FindByID(ctx, e.UserID); err == nil {
		e.User = *u
	}
	return &e, nil
}

func (f *fakeEnrollments) Find(_ context.Context, userID, courseID uint) (*models.CourseEnrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEnrollments) Save(_ context.Context, e *models.CourseEnrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[e.ID] = *e
	return nil
}

func (f *fakeEnrollments) SetCertificateURL(_ context.Context, id uint, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.CertificateURL = &url
	f.rows[id] = e
	return nil
}

func (f *fakeEnrollments) ListByUser(_ context.Context, userID uint) ([]models.CourseEnrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CourseEnrollment
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeCommunity struct {
	mu      sync.Mutex
	users   *fakeUsers
	nextID  uint
	groups  map[uint]models.CommunityGroup
	posts   map[uint]models.CommunityPost
	replies map[uint]models.CommunityReply
}

func (f *fakeCommunity) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeCommunity) CreateGroup(_ context.Context, g *models.CommunityGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.id()
	f.groups[g.ID] = *g
	return nil
}

func (f *fakeCommunity) FindGroup(_ context.Context, id uint) (*models.CommunityGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (f *fakeCommunity) ListPublicGroups(context.Context, repository.Page) ([]models.CommunityGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CommunityGroup
	for _, g := range f.groups {
		if !g.IsPrivate {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeCommunity) CreatePost(_ context.Context, p *models.CommunityPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeCommunity) FindPost(_ context.Context, id uint) (*models.CommunityPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCommunity) SavePost(_ context.Context, p *models.CommunityPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeCommunity) DeletePost(_ context.Context, p *models.CommunityPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.replies {
		if r.PostID == p.ID {
			delete(f.replies, id)
		}
	}
	delete(f.posts, p.ID)
	return nil
}

func (f *fakeCommunity) ListPosts(_ context.Context, filter repository.PostFilter) ([]models.CommunityPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CommunityPost
	for _, p := range f.posts {
		if filter.GroupID == nil || p.GroupID == *filter.GroupID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCommunity) CreateReply(_ context.Context, r *models.CommunityReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.replies[r.ID] = *r
	return nil
}

func (f *fakeCommunity) FindReply(_ context.Context, id uint) (*models.CommunityReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeCommunity) DeleteReply(_ context.Context, r *models.CommunityReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.replies, r.ID)
	return nil
}

func (f *fakeCommunity) ListReplies(_ context.Context, postID uint, _ repository.Page) ([]models.CommunityReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CommunityReply
	for _, r := range f.replies {
		if r.PostID == postID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePayments struct {
	mu   sync.Mutex
	rows map[string]models.Payment
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ProviderIntentID]; ok {
		return repository.ErrDuplicate
	}
	f.rows[p.ProviderIntentID] = *p
	return nil
}

// record stores a pending payment as CreateIntent would.
func (f *fakePayments) record(t *testing.T, intentID string, user *models.User, target PaymentTarget) {
	t.Helper()
	err := f.Create(context.Background(), &models.Payment{
		UserID:           user.ID,
		BookingID:        target.BookingID,
		CourseID:         target.CourseID,
		Provider:         "fake",
		ProviderIntentID: intentID,
		Status:           models.PaymentPending,
	})
	if err != nil {
		t.Fatalf("record payment %s: %v", intentID, err)
	}
}

func (f *fakePayments) FindByIntentID(_ context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePayments) MarkSucceeded(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentSucceeded
	f.rows[id] = p
	return nil
}

func (f *fakePayments) TotalSucceeded(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, p := range f.rows {
		if p.Status == models.PaymentSucceeded {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeProcessor struct {
	mu          sync.Mutex
	seq         int
	intents     map[string]*payments.Intent
	created     []payments.IntentRequest
	createErr   error
	retrieveErr error
}

func (f *fakeProcessor) Name() string { return "fake" }

func (f *fakeProcessor) CreateIntent(_ context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	f.seq++
	id := fmt.Sprintf("pi_%d", f.seq)
	intent := &payments.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       payments.StatusRequiresPaymentMethod,
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		Metadata:     req.Metadata,
	}
	f.intents[id] = intent
	return intent, nil
}

func (f *fakeProcessor) RetrieveIntent(_ context.Context, id string) (*payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	cp := *intent
	return &cp, nil
}

func (f *fakeProcessor) set(id, status string, md map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[id] = &payments.Intent{ID: id, Status: status, Metadata: md}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.Message
}

func (r *recordingNotifier) Dispatch(msg notifications.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type published struct {
	event websocket.Event
	users []uint
}

type recordingEvents struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingEvents) Publish(event websocket.Event, userIDs ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{event: event, users: userIDs})
}

func (r *recordingEvents) last() (published, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return published{}, false
	}
	return r.events[len(r.events)-1], true
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (f *fakeStorage) Upload(_ context.Context, r io.Reader, folder, name, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + name
	f.uploads = append(f.uploads, key)
	return "https://cdn.test/" + key, nil
}

type fakeCertificates struct {
	mu     sync.Mutex
	issued []uint
}

func (f *fakeCertificates) Issue(e *models.CourseEnrollment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, e.ID)
}

type testEnv struct {
	users        *fakeUsers
	mentors      *fakeMentors
	availability *fakeAvailability
	bookings     *fakeBookings
	courses      *fakeCourses
	enrollments  *fakeEnrollments
	community    *fakeCommunity
	payments     *fakePayments
	processor    *fakeProcessor
	notifier     *recordingNotifier
	events       *recordingEvents
	files        *fakeStorage
	certificates *fakeCertificates
	tokens       *auth.TokenService

	auth         *AuthService
	mentorSvc    *MentorService
	bookingSvc   *BookingService
	paymentSvc   *PaymentService
	courseSvc    *CourseService
	communitySvc *CommunityService
	adminSvc     *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUsers()
	courses := &fakeCourses{users: users, rows: map[uint]models.Course{}}
	e := &testEnv{
		users:        users,
		mentors:      &fakeMentors{users: users, rows: map[uint]models.MentorProfile{}},
		availability: &fakeAvailability{rows: map[uint]models.AvailabilitySlot{}},
		bookings:     &fakeBookings{users: users, rows: map[uint]models.Booking{}},
		courses:      courses,
		enrollments:  &fakeEnrollments{users: users, courses: courses, rows: map[uint]models.CourseEnrollment{}},
		community: &fakeCommunity{
			users:   users,
			groups:  map[uint]models.CommunityGroup{},
			posts:   map[uint]models.CommunityPost{},
			replies: map[uint]models.CommunityReply{},
		},
		payments:     &fakePayments{rows: map[string]models.Payment{}},
		processor:    &fakeProcessor{intents: map[string]*payments.Intent{}},
		notifier:     &recordingNotifier{},
		events:       &recordingEvents{},
		files:        &fakeStorage{},
		certificates: &fakeCertificates{},
	}
	tokens, err := auth.NewTokenService("test-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	e.tokens = tokens
	templates := notifications.NewTemplates("http://localhost:3000")

	e.auth = NewAuthService(e.users, e.mentors, tokens, e.files)
	e.mentorSvc = NewMentorService(e.mentors, e.availability)
	e.bookingSvc = NewBookingService(e.bookings, e.users, e.mentors, e.notifier, e.events, templates)
	e.paymentSvc = NewPaymentService(e.processor, e.payments, e.bookingSvc, e.courses, e.enrollments, e.notifier, templates, "USD")
	e.courseSvc = NewCourseService(e.courses, e.enrollments, e.files, search.Disabled{}, e.certificates, e.notifier, templates)
	e.communitySvc = NewCommunityService(e.community, search.Disabled{}, e.events)
	e.adminSvc = NewAdminService(e.users, e.mentors, e.bookings, e.courses, e.payments, e.notifier, templates)
	return e
}
