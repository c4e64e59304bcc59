package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	"github.com/shareit-lending/service-shareit/internal/common/kafka"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	commentDomain "github.com/shareit-lending/service-shareit/internal/domain/comment"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	requestDomain "github.com/shareit-lending/service-shareit/internal/domain/request"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- Users ---

type memUsers struct {
	rows   map[int64]*userDomain.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{rows: map[int64]*userDomain.User{}} }

func copyUser(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(u.ID(), u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound.Withf("user %d not found", id)
	}
	return copyUser(u), nil
}

func (r *memUsers) FindByIDs(_ context.Context, ids []int64) ([]*userDomain.User, error) {
	var out []*userDomain.User
	for _, id := range ids {
		if u, ok := r.rows[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r *memUsers) FindAll(_ context.Context) ([]*userDomain.User, error) {
	out := make([]*userDomain.User, 0, len(r.rows))
	for _, u := range r.rows {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memUsers) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, u := range r.rows {
		if id != excludeID && strings.EqualFold(u.Email(), email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) Save(_ context.Context, u *userDomain.User) error {
	r.nextID++
	u.AssignID(r.nextID)
	r.rows[u.ID()] = copyUser(u)
	return nil
}

func (r *memUsers) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := r.rows[u.ID()]; !ok {
		return userDomain.ErrUserNotFound
	}
	r.rows[u.ID()] = copyUser(u)
	return nil
}

func (r *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return userDomain.ErrUserNotFound
	}
	delete(r.rows, id)
	return nil
}

// --- Items ---

type memItems struct {
	rows   map[int64]*itemDomain.Item
	nextID int64
}

func newMemItems() *memItems { return &memItems{rows: map[int64]*itemDomain.Item{}} }

func copyItem(it *itemDomain.Item) *itemDomain.Item {
	return itemDomain.Reconstruct(it.ID(), it.OwnerID(), it.Name(), it.Description(), it.Available(),
		it.RequestID(), it.CreatedAt(), it.UpdatedAt())
}

func (r *memItems) sorted(keep func(*itemDomain.Item) bool) []*itemDomain.Item {
	var out []*itemDomain.Item
	for _, it := range r.rows {
		if keep(it) {
			out = append(out, copyItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (r *memItems) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	it, ok := r.rows[id]
	if !ok {
		return nil, itemDomain.ErrItemNotFound.Withf("item %d not found", id)
	}
	return copyItem(it), nil
}

func (r *memItems) FindByIDs(_ context.Context, ids []int64) ([]*itemDomain.Item, error) {
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.sorted(func(it *itemDomain.Item) bool { return set[it.ID()] }), nil
}

func (r *memItems) FindByOwnerID(_ context.Context, ownerID int64, offset, limit int) ([]*itemDomain.Item, error) {
	return window(r.sorted(func(it *itemDomain.Item) bool { return it.OwnerID() == ownerID }), offset, limit), nil
}

func (r *memItems) Search(_ context.Context, text string, offset, limit int) ([]*itemDomain.Item, error) {
	return window(r.sorted(func(it *itemDomain.Item) bool {
		return it.Available() && it.MatchesText(text)
	}), offset, limit), nil
}

func (r *memItems) FindByRequestIDs(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	set := map[int64]bool{}
	for _, id := range requestIDs {
		set[id] = true
	}
	return r.sorted(func(it *itemDomain.Item) bool {
		return it.RequestID() != nil && set[*it.RequestID()]
	}), nil
}

func (r *memItems) Save(_ context.Context, it *itemDomain.Item) error {
	r.nextID++
	it.AssignID(r.nextID)
	r.rows[it.ID()] = copyItem(it)
	return nil
}

func (r *memItems) Update(_ context.Context, it *itemDomain.Item) error {
	if _, ok := r.rows[it.ID()]; !ok {
		return itemDomain.ErrItemNotFound
	}
	r.rows[it.ID()] = copyItem(it)
	return nil
}

func (r *memItems) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return itemDomain.ErrItemNotFound
	}
	delete(r.rows, id)
	return nil
}

// --- Bookings ---

type memBookings struct {
	rows   map[int64]*bookingDomain.Booking
	items  *memItems
	nextID int64
}

func newMemBookings(items *memItems) *memBookings {
	return &memBookings{rows: map[int64]*bookingDomain.Booking{}, items: items}
}

func copyBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(b.ID(), b.ItemID(), b.BookerID(), b.Status(), b.Start(), b.End(),
		b.Version(), b.CreatedAt(), b.UpdatedAt())
}

func (r *memBookings) byID(keep func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, b := range r.rows {
		if keep(b) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *memBookings) byStart(keep func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	out := r.byID(keep)
	bookingDomain.SortByStartAsc(out)
	return out
}

func (r *memBookings) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, bookingDomain.ErrBookingNotFound.Withf("booking %d not found", id)
	}
	return copyBooking(b), nil
}

func (r *memBookings) FindByIDs(_ context.Context, ids []int64) ([]*bookingDomain.Booking, error) {
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.byID(func(b *bookingDomain.Booking) bool { return set[b.ID()] }), nil
}

func (r *memBookings) FindByBookerID(_ context.Context, bookerID int64) ([]*bookingDomain.Booking, error) {
	return r.byID(func(b *bookingDomain.Booking) bool { return b.BookerID() == bookerID }), nil
}

func (r *memBookings) FindByItemOwnerID(_ context.Context, ownerID int64) ([]*bookingDomain.Booking, error) {
	return r.byID(func(b *bookingDomain.Booking) bool {
		it, ok := r.items.rows[b.ItemID()]
		return ok && it.OwnerID() == ownerID
	}), nil
}

func (r *memBookings) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	set := map[int64]bool{}
	for _, id := range itemIDs {
		set[id] = true
	}
	return r.byStart(func(b *bookingDomain.Booking) bool { return set[b.ItemID()] }), nil
}

func (r *memBookings) FindByItemAndBooker(_ context.Context, itemID, bookerID int64) ([]*bookingDomain.Booking, error) {
	return r.byStart(func(b *bookingDomain.Booking) bool {
		return b.ItemID() == itemID && b.BookerID() == bookerID
	}), nil
}

func (r *memBookings) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.nextID++
	b.AssignID(r.nextID)
	r.rows[b.ID()] = copyBooking(b)
	return nil
}

func (r *memBookings) Update(_ context.Context, b *bookingDomain.Booking) error {
	stored, ok := r.rows[b.ID()]
	if !ok || stored.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.rows[b.ID()] = copyBooking(b)
	return nil
}

// --- Comments ---

type memComments struct {
	rows   []*commentDomain.Comment
	nextID int64
}

func (r *memComments) Save(_ context.Context, c *commentDomain.Comment) error {
	r.nextID++
	c.AssignID(r.nextID)
	r.rows = append(r.rows, commentDomain.Reconstruct(c.ID(), c.ItemID(), c.AuthorID(), c.Text(), c.Created()))
	return nil
}

func (r *memComments) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	set := map[int64]bool{}
	for _, id := range itemIDs {
		set[id] = true
	}
	var out []*commentDomain.Comment
	for _, c := range r.rows {
		if set[c.ItemID()] {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- Requests ---

type memRequests struct {
	rows   map[int64]*requestDomain.Request
	nextID int64
}

func newMemRequests() *memRequests { return &memRequests{rows: map[int64]*requestDomain.Request{}} }

func (r *memRequests) sorted(keep func(*requestDomain.Request) bool) []*requestDomain.Request {
	var out []*requestDomain.Request
	for _, req := range r.rows {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created().Equal(out[j].Created()) {
			return out[i].ID() < out[j].ID()
		}
		return out[i].Created().Before(out[j].Created())
	})
	return out
}

func (r *memRequests) Save(_ context.Context, req *requestDomain.Request) error {
	r.nextID++
	req.AssignID(r.nextID)
	r.rows[req.ID()] = requestDomain.Reconstruct(req.ID(), req.RequesterID(), req.Description(), req.Created())
	return nil
}

func (r *memRequests) FindByID(_ context.Context, id int64) (*requestDomain.Request, error) {
	req, ok := r.rows[id]
	if !ok {
		return nil, requestDomain.ErrRequestNotFound.Withf("item request %d not found", id)
	}
	return req, nil
}

func (r *memRequests) FindByRequesterID(_ context.Context, requesterID int64) ([]*requestDomain.Request, error) {
	return r.sorted(func(req *requestDomain.Request) bool { return req.RequesterID() == requesterID }), nil
}

func (r *memRequests) FindOthers(_ context.Context, userID int64, offset, limit int) ([]*requestDomain.Request, error) {
	return window(r.sorted(func(req *requestDomain.Request) bool { return req.RequesterID() != userID }), offset, limit), nil
}

// --- Fixture ---

type fixture struct {
	users     *memUsers
	items     *memItems
	bookings  *memBookings
	comments  *memComments
	requests  *memRequests
	publisher *recordingPublisher
	clock     fixedClock

	bookingSvc *BookingService
	itemSvc    *ItemService
	userSvc    *UserService
	requestSvc *RequestService
}

func newFixture() *fixture {
	f := &fixture{
		users:     newMemUsers(),
		items:     newMemItems(),
		comments:  &memComments{},
		requests:  newMemRequests(),
		publisher: &recordingPublisher{},
		clock:     fixedClock{now: testNow},
	}
	f.bookings = newMemBookings(f.items)

	log := zap.NewNop()
	f.bookingSvc = NewBookingService(f.bookings, f.items, f.users, f.publisher, "", f.clock, log)
	f.itemSvc = NewItemService(f.items, f.users, f.bookings, f.comments, f.requests, f.publisher, "", f.clock, log)
	f.userSvc = NewUserService(f.users, log)
	f.requestSvc = NewRequestService(f.requests, f.items, f.users, f.clock, log)
	return f
}

func (f *fixture) addUser(name string) int64 {
	u, err := userDomain.NewUser(name, strings.ToLower(name)+"@example.com")
	if err != nil {
		panic(err)
	}
	_ = f.users.Save(context.Background(), u)
	return u.ID()
}

func (f *fixture) addItem(ownerID int64, name string, available bool) int64 {
	it, err := itemDomain.NewItem(ownerID, name, name+" description", available, nil)
	if err != nil {
		panic(err)
	}
	_ = f.items.Save(context.Background(), it)
	return it.ID()
}

// addBooking stores a booking directly, bypassing creation rules.
func (f *fixture) addBooking(itemID, bookerID int64, start, end time.Duration, status bookingDomain.BookingStatus) int64 {
	b := bookingDomain.ReconstructBooking(0, itemID, bookerID, status,
		testNow.Add(start), testNow.Add(end), 1, testNow, testNow)
	_ = f.bookings.Save(context.Background(), b)
	return b.ID()
}
