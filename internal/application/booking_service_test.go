package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"github.com/shareit-lending/service-shareit/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingReq(itemID int64, start, end time.Duration) CreateBookingRequest {
	return CreateBookingRequest{
		ItemID: itemID,
		Start:  NewDateTime(testNow.Add(start)),
		End:    NewDateTime(testNow.Add(end)),
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	unavailable := f.addItem(owner, "Saw", false)

	tests := []struct {
		name    string
		userID  int64
		req     CreateBookingRequest
		wantErr error
	}{
		{"start equals end", booker, bookingReq(item, time.Hour, time.Hour), bookingDomain.ErrInvalidInterval},
		{"start after end", booker, bookingReq(item, 2*time.Hour, time.Hour), bookingDomain.ErrInvalidInterval},
		{"interval checked before item", booker, bookingReq(999, time.Hour, time.Hour), bookingDomain.ErrInvalidInterval},
		{"missing item", booker, bookingReq(999, time.Hour, 2*time.Hour), itemDomain.ErrItemNotFound},
		{"owner books own item", owner, bookingReq(item, time.Hour, 2*time.Hour), bookingDomain.ErrOwnerCannotBook},
		{"ownership checked before availability", owner, bookingReq(unavailable, time.Hour, 2*time.Hour), bookingDomain.ErrOwnerCannotBook},
		{"unavailable item", booker, bookingReq(unavailable, time.Hour, 2*time.Hour), itemDomain.ErrItemUnavailable},
		{"unknown booker", 999, bookingReq(item, time.Hour, 2*time.Hour), userDomain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookingSvc.CreateBooking(ctx, tt.userID, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.Empty(t, f.bookings.rows, "failed creations must not persist anything")
	assert.Empty(t, f.publisher.types())
}

func TestCreateBooking_OwnerCannotBookIsNotFoundKind(t *testing.T) {
	f := newFixture()
	owner := f.addUser("Owner")
	item := f.addItem(owner, "Drill", true)

	_, err := f.bookingSvc.CreateBooking(context.Background(), owner, bookingReq(item, time.Hour, 2*time.Hour))
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, kind)
}

func TestBookingLifecycle_ApproveThenRedecide(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u1 := f.addUser("Owner")
	u2 := f.addUser("Booker")
	item := f.addItem(u1, "Drill", true)

	created, err := f.bookingSvc.CreateBooking(ctx, u2, bookingReq(item, time.Second, 10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "WAITING", created.Status)
	assert.Equal(t, item, created.Item.ID)
	assert.Equal(t, "Drill", created.Item.Name)
	assert.Equal(t, "Booker", created.Booker.Name)

	stored, err := f.items.FindByID(ctx, item)
	require.NoError(t, err)
	assert.True(t, stored.Available(), "booking creation does not change availability")

	approved, err := f.bookingSvc.PatchBooking(ctx, created.ID, true, u1)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	_, err = f.bookingSvc.PatchBooking(ctx, created.ID, false, u1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingDomain.ErrAlreadyDecided))

	got, err := f.bookingSvc.GetBooking(ctx, created.ID, u2)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", got.Status)

	assert.Equal(t, []string{events.BookingCreated, events.BookingApproved}, f.publisher.types())
}

func TestPatchBooking_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	id := f.addBooking(item, booker, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)

	_, err := f.bookingSvc.PatchBooking(ctx, 999, true, owner)
	assert.True(t, errors.Is(err, bookingDomain.ErrBookingNotFound))

	_, err = f.bookingSvc.PatchBooking(ctx, id, true, booker)
	assert.True(t, errors.Is(err, bookingDomain.ErrNotOwner))

	rejected, err := f.bookingSvc.PatchBooking(ctx, id, false, owner)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)

	_, err = f.bookingSvc.PatchBooking(ctx, id, true, owner)
	assert.True(t, errors.Is(err, bookingDomain.ErrAlreadyDecided))

	orphan := f.addBooking(item, booker, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)
	delete(f.items.rows, item)
	_, err = f.bookingSvc.PatchBooking(ctx, orphan, true, owner)
	assert.True(t, errors.Is(err, itemDomain.ErrItemNotFound))
}

func TestPatchBooking_MissingBookerLeavesBookingWaiting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	id := f.addBooking(item, booker, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)
	delete(f.users.rows, booker)

	_, err := f.bookingSvc.PatchBooking(ctx, id, true, owner)
	assert.True(t, errors.Is(err, userDomain.ErrUserNotFound))

	stored, err := f.bookings.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusWaiting, stored.Status())
	assert.Equal(t, int64(1), stored.Version())
	assert.Empty(t, f.publisher.types())
}

func TestPatchBooking_LostRaceIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	id := f.addBooking(item, booker, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)

	first, err := f.bookings.FindByID(ctx, id)
	require.NoError(t, err)
	second, err := f.bookings.FindByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, first.Decide(true))
	first.IncrementVersion()
	require.NoError(t, f.bookings.Update(ctx, first))

	require.NoError(t, second.Decide(false))
	second.IncrementVersion()
	err = f.bookings.Update(ctx, second)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindConflict, kind)
}

func TestGetBooking_AccessDenied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u2 := f.addUser("Stranger")
	u3 := f.addUser("Owner")
	u4 := f.addUser("Booker")
	item := f.addItem(u3, "Drill", true)
	id := f.addBooking(item, u4, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)

	_, err := f.bookingSvc.GetBooking(ctx, id, u2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingDomain.ErrAccessDenied))
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindNotFound, kind)

	_, err = f.bookingSvc.GetBooking(ctx, id, u3)
	assert.NoError(t, err)
	_, err = f.bookingSvc.GetBooking(ctx, id, u4)
	assert.NoError(t, err)

	_, err = f.bookingSvc.GetBooking(ctx, 999, u4)
	assert.True(t, errors.Is(err, bookingDomain.ErrBookingNotFound))
}

func intPtr(v int) *int { return &v }

func TestListBookings_StateFilterAndOrdering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)

	past := f.addBooking(item, booker, -5*time.Hour, -4*time.Hour, bookingDomain.StatusApproved)
	current := f.addBooking(item, booker, -time.Hour, time.Hour, bookingDomain.StatusApproved)
	future := f.addBooking(item, booker, 2*time.Hour, 3*time.Hour, bookingDomain.StatusWaiting)
	rejected := f.addBooking(item, booker, 4*time.Hour, 5*time.Hour, bookingDomain.StatusRejected)

	ids := func(dtos []BookingDTO) []int64 {
		out := make([]int64, len(dtos))
		for i, d := range dtos {
			out[i] = d.ID
		}
		return out
	}

	tests := []struct {
		state bookingDomain.State
		want  []int64
	}{
		{bookingDomain.StateAll, []int64{rejected, future, current, past}},
		{bookingDomain.StatePast, []int64{past}},
		{bookingDomain.StateCurrent, []int64{current}},
		{bookingDomain.StateFuture, []int64{rejected, future}},
		{bookingDomain.StateWaiting, []int64{future}},
		{bookingDomain.StateRejected, []int64{rejected}},
	}

	for _, role := range []BookingRole{RoleBooker, RoleOwner} {
		userID := booker
		if role == RoleOwner {
			userID = owner
		}
		for _, tt := range tests {
			got, err := f.bookingSvc.ListBookings(ctx, role, userID, tt.state, domain.Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got), "role %d state %s", role, tt.state)

			for i := 1; i < len(got); i++ {
				assert.False(t, got[i-1].Start.Before(got[i].Start.Time))
			}
		}
	}

	none, err := f.bookingSvc.ListBookings(ctx, RoleOwner, booker, bookingDomain.StateAll, domain.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListBookings_Pagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	first := f.addBooking(item, booker, 3*time.Hour, 4*time.Hour, bookingDomain.StatusWaiting)
	second := f.addBooking(item, booker, 2*time.Hour, 3*time.Hour, bookingDomain.StatusWaiting)
	f.addBooking(item, booker, time.Hour, 2*time.Hour, bookingDomain.StatusWaiting)

	all, err := f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, domain.Pagination{From: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, all, 3, "only one of from/size means no pagination")

	all, err = f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, domain.Pagination{Size: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, domain.NewPagination(0, 1))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first, page[0].ID)

	page, err = f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, domain.NewPagination(1, 1))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second, page[0].ID)

	page, err = f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, domain.NewPagination(10, 5))
	require.NoError(t, err)
	assert.Empty(t, page)

	for _, p := range []domain.Pagination{
		domain.NewPagination(-1, 1),
		domain.NewPagination(0, 0),
		{From: intPtr(-1)},
		{Size: intPtr(0)},
	} {
		_, err = f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateAll, p)
		assert.True(t, errors.Is(err, domain.ErrPagination), "from=%v size=%v", p.From, p.Size)
	}
}

func TestListBookings_CurrentIncludesBoundaries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)
	startsNow := f.addBooking(item, booker, 0, time.Hour, bookingDomain.StatusApproved)
	endsNow := f.addBooking(item, booker, -time.Hour, 0, bookingDomain.StatusApproved)

	got, err := f.bookingSvc.ListBookings(ctx, RoleBooker, booker, bookingDomain.StateCurrent, domain.Pagination{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, startsNow, got[0].ID)
	assert.Equal(t, endsNow, got[1].ID)
}

func TestListBookings_UnknownUser(t *testing.T) {
	f := newFixture()
	_, err := f.bookingSvc.ListBookings(context.Background(), RoleBooker, 42, bookingDomain.StateAll, domain.NewPagination(-1, 0))
	assert.True(t, errors.Is(err, userDomain.ErrUserNotFound), "user existence is checked before pagination")
}

func TestCreateBooking_PublishFailureDoesNotFailCall(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")
	owner := f.addUser("Owner")
	booker := f.addUser("Booker")
	item := f.addItem(owner, "Drill", true)

	created, err := f.bookingSvc.CreateBooking(context.Background(), booker, bookingReq(item, time.Hour, 2*time.Hour))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}
