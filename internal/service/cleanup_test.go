package service

import (
	"testing"
	"time"

	"github.com/docuforge/docuforge/internal/api/dto"
	"github.com/docuforge/docuforge/internal/domain/accessrequest"
	"github.com/docuforge/docuforge/internal/domain/usage"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/testutil"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/stretchr/testify/suite"
)

type CleanupServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CleanupService
}

func TestCleanupService(t *testing.T) {
	suite.Run(t, new(CleanupServiceSuite))
}

func (s *CleanupServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCleanupService(newTestServiceParams(&s.BaseServiceTestSuite))
}

// seedRequest writes a request document directly so CreatedAt and Status can
// be backdated, the way an abandoned request would look in production.
func (s *CleanupServiceSuite) seedRequest(id string, status types.RequestStatus, age time.Duration) {
	created := time.Now().UTC().Add(-age)
	s.SeedDocument(types.CollectionAccessRequests, id, accessrequest.AccessRequest{
		ID:                id,
		RequesterID:       "user-1",
		RequestType:       types.RequestTypeDownload,
		TargetResourceIDs: []string{"tpl-1"},
		Status:            status,
		CreatedAt:         created,
		UpdatedAt:         created,
	})
}

func (s *CleanupServiceSuite) TestSweepRemovesOnlyStalePending() {
	s.seedRequest("req-stale", types.RequestStatusPending, time.Hour)
	s.seedRequest("req-fresh", types.RequestStatusPending, time.Minute)
	s.seedRequest("req-done", types.RequestStatusApproved, time.Hour)

	removed, err := s.service.SweepOrphans(s.GetContext())
	s.NoError(err)
	s.Equal(1, removed)

	_, err = s.GetStores().AccessRequest.Get(s.GetContext(), "req-stale")
	s.True(ierr.IsNotFound(err))

	// Fresh pending and finalized requests survive the sweep.
	fresh, err := s.GetStores().AccessRequest.Get(s.GetContext(), "req-fresh")
	s.NoError(err)
	s.Equal(types.RequestStatusPending, fresh.Status)

	done, err := s.GetStores().AccessRequest.Get(s.GetContext(), "req-done")
	s.NoError(err)
	s.Equal(types.RequestStatusApproved, done.Status)
}

func (s *CleanupServiceSuite) TestSweepEmptyStore() {
	removed, err := s.service.SweepOrphans(s.GetContext())
	s.NoError(err)
	s.Zero(removed)
}

type DispatcherServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    DispatcherService
	validation ValidationService
}

func TestDispatcherService(t *testing.T) {
	suite.Run(t, new(DispatcherServiceSuite))
}

func (s *DispatcherServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewDispatcherService(params)
	s.validation = NewValidationService(params)
}

func (s *DispatcherServiceSuite) TestDispatchFinalizesEveryPendingRequest() {
	ctx := s.GetContext()

	approved, err := s.validation.CreateAccessRequest(ctx, &dto.CreateAccessRequestRequest{
		RequesterID:       "user-1",
		RequestType:       "download",
		TargetResourceIDs: []string{"tpl-1"},
	})
	s.Require().NoError(err)
	rejected, err := s.validation.CreateAccessRequest(ctx, &dto.CreateAccessRequestRequest{
		RequesterID:       "user-2",
		RequestType:       "download",
		TargetResourceIDs: []string{"tpl-1"},
	})
	s.Require().NoError(err)

	// user-2 starts the day at the free-tier document cap.
	key := usage.NewDayKey("user-2", time.Now().UTC()).Encode()
	s.SeedDocument(types.CollectionUsage, key, usage.Counter{
		DocumentsProcessed: 5,
		LastUpdated:        time.Now().UTC(),
	})

	s.NoError(s.service.DispatchPending(ctx))

	a, err := s.GetStores().AccessRequest.Get(ctx, approved.ID)
	s.NoError(err)
	s.Equal(types.RequestStatusApproved, a.Status)

	r, err := s.GetStores().AccessRequest.Get(ctx, rejected.ID)
	s.NoError(err)
	s.Equal(types.RequestStatusRejected, r.Status)

	// A second pass finds nothing pending and changes nothing.
	s.NoError(s.service.DispatchPending(ctx))
	a2, err := s.GetStores().AccessRequest.Get(ctx, approved.ID)
	s.NoError(err)
	s.Equal(a.UpdatedAt, a2.UpdatedAt)
}
