package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. All
// sub-repositories share its state; WithTransaction simply runs the callback
// against the same store.
type fakeRepository struct {
	mu sync.Mutex

	issues      map[uint]*models.Issue
	users       map[uint]*models.Users
	contractors map[uint]*models.Contractor
	feedbacks   []*models.Feedback

	nextIssueID      uint
	nextUserID       uint
	nextContractorID uint
	nextFeedbackID   uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		issues:      make(map[uint]*models.Issue),
		users:       make(map[uint]*models.Users),
		contractors: make(map[uint]*models.Contractor),
	}
}

func (r *fakeRepository) Issue() repositories.IssueRepository           { return &fakeIssueRepo{r} }
func (r *fakeRepository) User() repositories.UserRepository             { return &fakeUserRepo{r} }
func (r *fakeRepository) Contractor() repositories.ContractorRepository { return &fakeContractorRepo{r} }
func (r *fakeRepository) Feedback() repositories.FeedbackRepository     { return &fakeFeedbackRepo{r} }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// addUser seeds a user and returns it.
func (r *fakeRepository) addUser(username, email string, role models.UserRole, enabled bool) *models.Users {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUserID++
	user := &models.Users{
		ID:       r.nextUserID,
		Username: username,
		Email:    email,
		Role:     role,
		Enabled:  enabled,
	}
	r.users[user.ID] = user
	return user
}

// addContractor seeds a contractor profile for a user.
func (r *fakeRepository) addContractor(user *models.Users, area string) *models.Contractor {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextContractorID++
	contractor := &models.Contractor{
		ID:           r.nextContractorID,
		UserID:       user.ID,
		User:         *user,
		AssignedArea: area,
	}
	r.contractors[contractor.ID] = contractor
	return contractor
}

// ===== ISSUE =====

type fakeIssueRepo struct{ r *fakeRepository }

func (f *fakeIssueRepo) Create(ctx context.Context, issue *models.Issue) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.nextIssueID++
	issue.ID = f.r.nextIssueID
	issue.Status = models.StatusPending
	f.r.issues[issue.ID] = issue
	return nil
}

func (f *fakeIssueRepo) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	issue, ok := f.r.issues[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if user, ok := f.r.users[issue.UserID]; ok {
		issue.User = *user
	}
	if issue.ContractorID != nil {
		if contractor, ok := f.r.contractors[*issue.ContractorID]; ok {
			if user, ok := f.r.users[contractor.UserID]; ok {
				contractor.User = *user
			}
			issue.Contractor = contractor
		}
	}
	return issue, nil
}

func (f *fakeIssueRepo) Update(ctx context.Context, issue *models.Issue) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.issues[issue.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.r.issues[issue.ID] = issue
	return nil
}

func (f *fakeIssueRepo) Delete(ctx context.Context, issue *models.Issue) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	delete(f.r.issues, issue.ID)
	return nil
}

func (f *fakeIssueRepo) List(ctx context.Context) ([]*models.Issue, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	out := make([]*models.Issue, 0, len(f.r.issues))
	for _, issue := range f.r.issues {
		out = append(out, issue)
	}
	return out, nil
}

func (f *fakeIssueRepo) ListByReporter(ctx context.Context, userID uint) ([]*models.Issue, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Issue
	for _, issue := range f.r.issues {
		if issue.UserID == userID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (f *fakeIssueRepo) ListByContractor(ctx context.Context, contractorID uint) ([]*models.Issue, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Issue
	for _, issue := range f.r.issues {
		if issue.ContractorID != nil && *issue.ContractorID == contractorID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (f *fakeIssueRepo) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	counts := make(map[models.IssueCategory]int64)
	for _, issue := range f.r.issues {
		counts[issue.Category]++
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, models.CategoryCount{Category: category, Count: count})
	}
	return out, nil
}

func (f *fakeIssueRepo) Exists(ctx context.Context, id uint) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	_, ok := f.r.issues[id]
	return ok, nil
}

// ===== USER =====

type fakeUserRepo struct{ r *fakeRepository }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.Users) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.nextUserID++
	user.ID = f.r.nextUserID
	f.r.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.Users, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	user, ok := f.r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.Users, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.Users, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.Users) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.r.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, user *models.Users) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	delete(f.r.users, user.ID)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.Users, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	out := make([]*models.Users, 0, len(f.r.users))
	for _, user := range f.r.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) ExistsByRole(ctx context.Context, role models.UserRole) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// ===== CONTRACTOR =====

type fakeContractorRepo struct{ r *fakeRepository }

func (f *fakeContractorRepo) Create(ctx context.Context, contractor *models.Contractor) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.nextContractorID++
	contractor.ID = f.r.nextContractorID
	f.r.contractors[contractor.ID] = contractor
	return nil
}

func (f *fakeContractorRepo) GetByID(ctx context.Context, id uint) (*models.Contractor, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	contractor, ok := f.r.contractors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if user, ok := f.r.users[contractor.UserID]; ok {
		contractor.User = *user
	}
	return contractor, nil
}

func (f *fakeContractorRepo) GetByUser(ctx context.Context, userID uint) (*models.Contractor, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, contractor := range f.r.contractors {
		if contractor.UserID == userID {
			return contractor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContractorRepo) Delete(ctx context.Context, contractor *models.Contractor) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	delete(f.r.contractors, contractor.ID)
	return nil
}

func (f *fakeContractorRepo) ListPending(ctx context.Context) ([]*models.Contractor, error) {
	return f.listByEnabled(false)
}

func (f *fakeContractorRepo) ListApproved(ctx context.Context) ([]*models.Contractor, error) {
	return f.listByEnabled(true)
}

func (f *fakeContractorRepo) listByEnabled(enabled bool) ([]*models.Contractor, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Contractor
	for _, contractor := range f.r.contractors {
		user, ok := f.r.users[contractor.UserID]
		if !ok || user.Enabled != enabled {
			continue
		}
		contractor.User = *user
		out = append(out, contractor)
	}
	return out, nil
}

// ===== FEEDBACK =====

type fakeFeedbackRepo struct{ r *fakeRepository }

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.nextFeedbackID++
	feedback.ID = f.r.nextFeedbackID
	f.r.feedbacks = append(f.r.feedbacks, feedback)
	return nil
}

func (f *fakeFeedbackRepo) ListByIssue(ctx context.Context, issueID uint) ([]*models.Feedback, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Feedback
	for _, fb := range f.r.feedbacks {
		if fb.IssueID == issueID {
			out = append(out, fb)
		}
	}
	return out, nil
}
