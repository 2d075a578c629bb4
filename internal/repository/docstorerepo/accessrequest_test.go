package docstorerepo

import (
	"context"
	"testing"
	"time"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/accessrequest"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/stretchr/testify/suite"
)

type AccessRequestRepositorySuite struct {
	suite.Suite
	ctx   context.Context
	store *docstore.InMemoryStore
	repo  accessrequest.Repository
}

func TestAccessRequestRepository(t *testing.T) {
	suite.Run(t, new(AccessRequestRepositorySuite))
}

func (s *AccessRequestRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewInMemoryStore()
	s.repo = NewAccessRequestRepository(s.store, logger.GetLogger())
}

func (s *AccessRequestRepositorySuite) newRequest(id string) *accessrequest.AccessRequest {
	return &accessrequest.AccessRequest{
		ID:                id,
		RequesterID:       "user-1",
		RequestType:       types.RequestTypeDownload,
		TargetResourceIDs: []string{"tpl-1"},
	}
}

func (s *AccessRequestRepositorySuite) TestCreateStampsPendingState() {
	req := s.newRequest("req-1")
	s.NoError(s.repo.Create(s.ctx, req))
	s.Equal(types.RequestStatusPending, req.Status)
	s.False(req.CreatedAt.IsZero())
	s.NotZero(req.Version)
}

func (s *AccessRequestRepositorySuite) TestCreateDuplicateID() {
	s.NoError(s.repo.Create(s.ctx, s.newRequest("req-1")))

	err := s.repo.Create(s.ctx, s.newRequest("req-1"))
	s.True(ierr.IsAlreadyExists(err))
}

func (s *AccessRequestRepositorySuite) TestFinalizeWritesTerminalState() {
	req := s.newRequest("req-1")
	s.Require().NoError(s.repo.Create(s.ctx, req))

	s.NoError(s.repo.Finalize(s.ctx, req, types.RequestStatusApproved, []string{"tpl-1"}, nil))

	stored, err := s.repo.Get(s.ctx, "req-1")
	s.NoError(err)
	s.Equal(types.RequestStatusApproved, stored.Status)
	s.Equal([]string{"tpl-1"}, stored.ApprovedResourceIDs)
}

func (s *AccessRequestRepositorySuite) TestFinalizeLosesRaceOnStaleVersion() {
	req := s.newRequest("req-1")
	s.Require().NoError(s.repo.Create(s.ctx, req))

	// A second reader finalizes first.
	other, err := s.repo.Get(s.ctx, "req-1")
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Finalize(s.ctx, other, types.RequestStatusRejected, nil, &accessrequest.RequestError{
		Code:    types.ErrorCodeQuotaExceeded,
		Message: "daily quota exceeded",
	}))

	err = s.repo.Finalize(s.ctx, req, types.RequestStatusApproved, []string{"tpl-1"}, nil)
	s.True(ierr.IsVersionConflict(err))

	// The first verdict stands.
	stored, err := s.repo.Get(s.ctx, "req-1")
	s.NoError(err)
	s.Equal(types.RequestStatusRejected, stored.Status)
}

func (s *AccessRequestRepositorySuite) TestListPendingOlderThan() {
	old := s.newRequest("req-old")
	s.Require().NoError(s.repo.Create(s.ctx, old))
	fresh := s.newRequest("req-fresh")
	s.Require().NoError(s.repo.Create(s.ctx, fresh))

	// Backdate the first request past the cutoff.
	old.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := s.store.Set(s.ctx, types.CollectionAccessRequests, old.ID, old, &old.Version)
	s.Require().NoError(err)

	stale, err := s.repo.ListPendingOlderThan(s.ctx, time.Now().UTC().Add(-30*time.Minute))
	s.NoError(err)
	s.Require().Len(stale, 1)
	s.Equal("req-old", stale[0].ID)
}

func (s *AccessRequestRepositorySuite) TestDeleteStaleVersionConflicts() {
	req := s.newRequest("req-1")
	s.Require().NoError(s.repo.Create(s.ctx, req))

	listed, err := s.repo.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)

	// Finalized after the list was taken: the delete must not win.
	s.Require().NoError(s.repo.Finalize(s.ctx, req, types.RequestStatusApproved, []string{"tpl-1"}, nil))

	err = s.repo.Delete(s.ctx, listed[0])
	s.True(ierr.IsVersionConflict(err))

	stored, err := s.repo.Get(s.ctx, "req-1")
	s.NoError(err)
	s.Equal(types.RequestStatusApproved, stored.Status)
}
