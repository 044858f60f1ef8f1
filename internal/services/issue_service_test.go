package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stephen4599/Civic-resolve/internal/events"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

func newIssueTestEnv() (*fakeRepository, *events.MockEventPublisher, IssueService) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewIssueService(repo, publisher, logger, validator.New(),
		"http://localhost:8080", "http://localhost:3000")
	return repo, publisher, svc
}

func validIssueRequest() *CreateIssueRequest {
	return &CreateIssueRequest{
		Description: "pothole",
		Address:     "12 Main Street",
		Pincode:     "560001",
		Category:    models.CategoryRoad,
		Latitude:    10.0,
		Longitude:   20.0,
	}
}

func TestIssueService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("NewIssueStartsPending", func(t *testing.T) {
		repo, publisher, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		resp, err := svc.Create(ctx, validIssueRequest(), "alice")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.Status != models.StatusPending {
			t.Errorf("Expected status PENDING, got %s", resp.Status)
		}
		if resp.ReportedBy != "alice" {
			t.Errorf("Expected reportedBy alice, got %s", resp.ReportedBy)
		}

		reported := publisher.EventsOfType(events.EventIssueReported)
		if len(reported) != 1 {
			t.Fatalf("Expected 1 issue_reported event, got %d", len(reported))
		}
		if reported[0].Recipient != "alice@example.com" {
			t.Errorf("Expected event addressed to alice@example.com, got %s", reported[0].Recipient)
		}
	})

	t.Run("OtherCategoryClearedForClosedCategories", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		req := validIssueRequest()
		req.OtherCategory = "leftover text"

		resp, err := svc.Create(ctx, req, "alice")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.OtherCategory != "" {
			t.Errorf("Expected otherCategory cleared, got %q", resp.OtherCategory)
		}
	})

	t.Run("OtherCategoryRequiredForOther", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		req := validIssueRequest()
		req.Category = models.CategoryOther
		req.OtherCategory = ""

		if _, err := svc.Create(ctx, req, "alice"); !validator.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})

	t.Run("ZeroCoordinatesAccepted", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		// A report on the equator or prime meridian is legitimate.
		req := validIssueRequest()
		req.Latitude = 0
		req.Longitude = 0

		resp, err := svc.Create(ctx, req, "alice")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.Latitude != 0 || resp.Longitude != 0 {
			t.Errorf("Expected zero coordinates kept, got %f,%f", resp.Latitude, resp.Longitude)
		}
	})

	t.Run("UnknownReporterFails", func(t *testing.T) {
		_, _, svc := newIssueTestEnv()

		if _, err := svc.Create(ctx, validIssueRequest(), "ghost"); err != ErrUserNotFound {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("ImageURLDerivedFromStoredBytes", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		req := validIssueRequest()
		req.Image = &models.ImageUpload{
			Data:        []byte{0xFF, 0xD8},
			ContentType: "image/jpeg",
			Filename:    "pothole.jpg",
		}

		resp, err := svc.Create(ctx, req, "alice")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.ImagePath == nil {
			t.Fatal("Expected imagePath to be set")
		}
		want := "http://localhost:8080/api/issues/1/image"
		if *resp.ImagePath != want {
			t.Errorf("Expected %s, got %s", want, *resp.ImagePath)
		}
		if resp.BeforeImagePath != nil || resp.AfterImagePath != nil {
			t.Error("Expected empty before/after image paths")
		}
	})
}

func TestIssueService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeRepository, status models.IssueStatus) *models.Issue {
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		issue := &models.Issue{
			ID: 1, Description: "pothole", Address: "12 Main Street",
			Pincode: "560001", Category: models.CategoryRoad,
			Latitude: 10, Longitude: 20,
			Status: status, UserID: alice.ID, User: *alice,
		}
		repo.issues[issue.ID] = issue
		repo.nextIssueID = 1
		return issue
	}

	updateReq := func() *UpdateIssueRequest {
		return &UpdateIssueRequest{
			Description: "widened pothole",
			Address:     "12 Main Street",
			Pincode:     "560001",
			Category:    models.CategoryRoad,
			Latitude:    10,
			Longitude:   20,
		}
	}

	t.Run("ReporterEditsPendingIssue", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		seed(repo, models.StatusPending)

		resp, err := svc.Update(ctx, 1, updateReq(), "alice")
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if resp.Description != "widened pothole" {
			t.Errorf("Expected updated description, got %q", resp.Description)
		}
	})

	t.Run("NonPendingIsImmutable", func(t *testing.T) {
		for _, status := range []models.IssueStatus{
			models.StatusVerified, models.StatusInProgress,
			models.StatusResolved, models.StatusRejected,
		} {
			repo, _, svc := newIssueTestEnv()
			seed(repo, status)

			if _, err := svc.Update(ctx, 1, updateReq(), "alice"); !IsStateError(err) {
				t.Errorf("status %s: expected state error, got %v", status, err)
			}
		}
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		seed(repo, models.StatusPending)
		repo.addUser("bob", "bob@example.com", models.RoleCitizen, true)

		if _, err := svc.Update(ctx, 1, updateReq(), "bob"); !IsPermissionError(err) {
			t.Fatalf("Expected permission error, got %v", err)
		}
	})

	t.Run("AdminMayEdit", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		seed(repo, models.StatusPending)
		repo.addUser("root", "root@example.com", models.RoleAdmin, true)

		if _, err := svc.Update(ctx, 1, updateReq(), "root"); err != nil {
			t.Fatalf("Expected admin edit to succeed, got %v", err)
		}
	})

	t.Run("MissingIssueNotFound", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)

		if _, err := svc.Update(ctx, 99, updateReq(), "alice"); err != ErrIssueNotFound {
			t.Fatalf("Expected ErrIssueNotFound, got %v", err)
		}
	})
}

func TestIssueService_Delete(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeRepository, status models.IssueStatus) {
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: status,
			UserID: alice.ID, User: *alice,
		}
		repo.nextIssueID = 1
	}

	t.Run("StrangerForbidden", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		seed(repo, models.StatusPending)
		repo.addUser("bob", "bob@example.com", models.RoleCitizen, true)

		if err := svc.Delete(ctx, 1, "bob"); !IsPermissionError(err) {
			t.Fatalf("Expected permission error, got %v", err)
		}
	})

	t.Run("CitizenCannotDeleteInFlightWork", func(t *testing.T) {
		for _, status := range []models.IssueStatus{models.StatusVerified, models.StatusInProgress} {
			repo, _, svc := newIssueTestEnv()
			seed(repo, status)

			if err := svc.Delete(ctx, 1, "alice"); !IsStateError(err) {
				t.Errorf("status %s: expected state error, got %v", status, err)
			}
		}
	})

	t.Run("CitizenDeletesOwnPendingIssue", func(t *testing.T) {
		repo, _, svc := newIssueTestEnv()
		seed(repo, models.StatusPending)

		if err := svc.Delete(ctx, 1, "alice"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok := repo.issues[1]; ok {
			t.Error("Expected issue removed from store")
		}
	})

	t.Run("AdminDeletesInAnyState", func(t *testing.T) {
		for _, status := range []models.IssueStatus{
			models.StatusPending, models.StatusVerified,
			models.StatusInProgress, models.StatusResolved, models.StatusRejected,
		} {
			repo, _, svc := newIssueTestEnv()
			seed(repo, status)
			repo.addUser("root", "root@example.com", models.RoleAdmin, true)

			if err := svc.Delete(ctx, 1, "root"); err != nil {
				t.Errorf("status %s: admin delete failed: %v", status, err)
			}
		}
	})
}

func TestIssueService_AssignContractor(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newIssueTestEnv()

	alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
	worker := repo.addUser("worker", "worker@example.com", models.RoleContractor, true)

	repo.contractors[5] = &models.Contractor{ID: 5, UserID: worker.ID, User: *worker}
	repo.nextContractorID = 5
	repo.issues[42] = &models.Issue{
		ID: 42, Description: "streetlight out", Status: models.StatusVerified,
		UserID: alice.ID, User: *alice,
	}
	repo.nextIssueID = 42

	resp, err := svc.AssignContractor(ctx, 42, 5)
	if err != nil {
		t.Fatalf("AssignContractor failed: %v", err)
	}
	if resp.Status != models.StatusInProgress {
		t.Errorf("Expected status IN_PROGRESS, got %s", resp.Status)
	}
	if resp.ContractorID == nil || *resp.ContractorID != 5 {
		t.Errorf("Expected contractor 5, got %v", resp.ContractorID)
	}

	t.Run("AssignmentBypassesTransitionTable", func(t *testing.T) {
		// Re-assignment of an already IN_PROGRESS issue keeps working.
		resp, err := svc.AssignContractor(ctx, 42, 5)
		if err != nil {
			t.Fatalf("Re-assign failed: %v", err)
		}
		if resp.Status != models.StatusInProgress {
			t.Errorf("Expected status IN_PROGRESS, got %s", resp.Status)
		}
	})

	t.Run("MissingContractorNotFound", func(t *testing.T) {
		if _, err := svc.AssignContractor(ctx, 42, 99); err != ErrContractorNotFound {
			t.Fatalf("Expected ErrContractorNotFound, got %v", err)
		}
	})

	t.Run("OnlyVerifiedOrInProgressAssignable", func(t *testing.T) {
		for _, status := range []models.IssueStatus{
			models.StatusPending, models.StatusResolved, models.StatusRejected,
		} {
			repo, _, svc := newIssueTestEnv()
			alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
			worker := repo.addUser("worker", "worker@example.com", models.RoleContractor, true)
			contractor := repo.addContractor(worker, "north district")
			repo.issues[1] = &models.Issue{
				ID: 1, Description: "pothole", Status: status,
				UserID: alice.ID, User: *alice,
			}
			repo.nextIssueID = 1

			if _, err := svc.AssignContractor(ctx, 1, contractor.ID); !IsStateError(err) {
				t.Errorf("status %s: expected state error, got %v", status, err)
			}
			if repo.issues[1].Status != status {
				t.Errorf("status %s: expected status unchanged, got %s", status, repo.issues[1].Status)
			}
		}
	})

	t.Run("MissingIssueNotFound", func(t *testing.T) {
		if _, err := svc.AssignContractor(ctx, 999, 5); err != ErrIssueNotFound {
			t.Fatalf("Expected ErrIssueNotFound, got %v", err)
		}
	})
}

func TestIssueService_UpdateStatus_TransitionTable(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		from    models.IssueStatus
		to      models.IssueStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusVerified, true},
		{models.StatusPending, models.StatusRejected, true},
		{models.StatusPending, models.StatusInProgress, false},
		{models.StatusPending, models.StatusResolved, false},
		{models.StatusVerified, models.StatusInProgress, true},
		{models.StatusVerified, models.StatusRejected, true},
		{models.StatusVerified, models.StatusResolved, false},
		{models.StatusVerified, models.StatusPending, false},
		{models.StatusInProgress, models.StatusInProgress, true},
		{models.StatusInProgress, models.StatusResolved, true},
		{models.StatusInProgress, models.StatusRejected, false},
		{models.StatusResolved, models.StatusInProgress, false},
		{models.StatusResolved, models.StatusVerified, false},
		{models.StatusRejected, models.StatusVerified, false},
		{models.StatusRejected, models.StatusPending, false},
	}

	for _, tc := range cases {
		repo, _, svc := newIssueTestEnv()
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: tc.from,
			UserID: alice.ID, User: *alice,
		}
		repo.nextIssueID = 1

		_, err := svc.UpdateStatus(ctx, 1, &UpdateIssueStatusRequest{Status: tc.to})
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s: expected success, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed && !IsStateError(err) {
			t.Errorf("%s -> %s: expected transition error, got %v", tc.from, tc.to, err)
		}
	}
}

func TestIssueService_UpdateStatus_Notifications(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvedNotifiesReporterWithEvidence", func(t *testing.T) {
		repo, publisher, svc := newIssueTestEnv()
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: models.StatusInProgress,
			UserID: alice.ID, User: *alice,
		}
		repo.nextIssueID = 1

		_, err := svc.UpdateStatus(ctx, 1, &UpdateIssueStatusRequest{
			Status:      models.StatusResolved,
			BeforeImage: &models.ImageUpload{Data: []byte("before"), ContentType: "image/png", Filename: "before.png"},
			AfterImage:  &models.ImageUpload{Data: []byte("after"), ContentType: "image/png", Filename: "after.png"},
		})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}

		resolved := publisher.EventsOfType(events.EventIssueResolved)
		if len(resolved) != 1 {
			t.Fatalf("Expected exactly 1 resolved event, got %d", len(resolved))
		}
		event := resolved[0]
		if event.Recipient != "alice@example.com" {
			t.Errorf("Expected reporter recipient, got %s", event.Recipient)
		}
		if len(event.Attachments) != 2 {
			t.Errorf("Expected 2 attachments, got %d", len(event.Attachments))
		}
		if event.Link == "" {
			t.Error("Expected feedback link to be set")
		}
	})

	t.Run("RejectedNotifiesReporterWithRemark", func(t *testing.T) {
		repo, publisher, svc := newIssueTestEnv()
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: models.StatusPending,
			UserID: alice.ID, User: *alice,
		}
		repo.nextIssueID = 1

		remark := "duplicate of an existing report"
		_, err := svc.UpdateStatus(ctx, 1, &UpdateIssueStatusRequest{
			Status: models.StatusRejected,
			Remark: &remark,
		})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}

		rejected := publisher.EventsOfType(events.EventIssueRejected)
		if len(rejected) != 1 {
			t.Fatalf("Expected exactly 1 rejected event, got %d", len(rejected))
		}
		if rejected[0].Remark != remark {
			t.Errorf("Expected remark %q, got %q", remark, rejected[0].Remark)
		}
	})

	t.Run("SendBackNotifiesContractor", func(t *testing.T) {
		repo, publisher, svc := newIssueTestEnv()
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		worker := repo.addUser("worker", "worker@example.com", models.RoleContractor, true)
		contractor := repo.addContractor(worker, "north district")

		cid := contractor.ID
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: models.StatusInProgress,
			UserID: alice.ID, User: *alice, ContractorID: &cid,
		}
		repo.nextIssueID = 1

		remark := "patch has already cracked"
		_, err := svc.UpdateStatus(ctx, 1, &UpdateIssueStatusRequest{
			Status: models.StatusInProgress,
			Remark: &remark,
		})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}

		reassigned := publisher.EventsOfType(events.EventIssueReassigned)
		if len(reassigned) != 1 {
			t.Fatalf("Expected exactly 1 reassigned event, got %d", len(reassigned))
		}
		if reassigned[0].Recipient != "worker@example.com" {
			t.Errorf("Expected contractor recipient, got %s", reassigned[0].Recipient)
		}
	})

	t.Run("VerifiedIsSilent", func(t *testing.T) {
		repo, publisher, svc := newIssueTestEnv()
		alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
		repo.issues[1] = &models.Issue{
			ID: 1, Description: "pothole", Status: models.StatusPending,
			UserID: alice.ID, User: *alice,
		}
		repo.nextIssueID = 1

		if _, err := svc.UpdateStatus(ctx, 1, &UpdateIssueStatusRequest{Status: models.StatusVerified}); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if got := publisher.GetPublishedEvents(); len(got) != 0 {
			t.Errorf("Expected no events, got %d", len(got))
		}
	})
}

func TestIssueService_GetImage(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newIssueTestEnv()
	alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
	repo.issues[1] = &models.Issue{
		ID: 1, Status: models.StatusPending, UserID: alice.ID, User: *alice,
		ImageData: []byte("jpeg-bytes"), ImageType: "image/jpeg", ImageName: "report.jpg",
	}
	repo.nextIssueID = 1

	t.Run("StoredSlotStreams", func(t *testing.T) {
		img, err := svc.GetImage(ctx, 1, ImageSlotReport)
		if err != nil {
			t.Fatalf("GetImage failed: %v", err)
		}
		if img.ContentType != "image/jpeg" || img.Filename != "report.jpg" {
			t.Errorf("Unexpected image metadata: %+v", img)
		}
	})

	t.Run("EmptySlotNotFound", func(t *testing.T) {
		if _, err := svc.GetImage(ctx, 1, ImageSlotBefore); err != ErrImageNotFound {
			t.Fatalf("Expected ErrImageNotFound, got %v", err)
		}
	})
}

func TestIssueService_GetContractorIssues(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newIssueTestEnv()

	alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
	worker := repo.addUser("worker", "worker@example.com", models.RoleContractor, true)
	contractor := repo.addContractor(worker, "north district")

	cid := contractor.ID
	repo.issues[1] = &models.Issue{ID: 1, Status: models.StatusInProgress, UserID: alice.ID, User: *alice, ContractorID: &cid}
	repo.issues[2] = &models.Issue{ID: 2, Status: models.StatusPending, UserID: alice.ID, User: *alice}
	repo.nextIssueID = 2

	issues, err := svc.GetContractorIssues(ctx, "worker")
	if err != nil {
		t.Fatalf("GetContractorIssues failed: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != 1 {
		t.Errorf("Expected only issue 1 assigned, got %v", issues)
	}

	t.Run("NoProfileNotFound", func(t *testing.T) {
		repo.addUser("plain", "plain@example.com", models.RoleCitizen, true)
		if _, err := svc.GetContractorIssues(ctx, "plain"); err != ErrContractorNotFound {
			t.Fatalf("Expected ErrContractorNotFound, got %v", err)
		}
	})
}
