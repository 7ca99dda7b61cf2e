package application

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peershare/service-rental/internal/domain"
	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	itemDomain "github.com/peershare/service-rental/internal/domain/item"
	requestDomain "github.com/peershare/service-rental/internal/domain/request"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// In-memory repository fakes. They mirror the read shapes of the GORM layer,
// including ordering, so service tests exercise the same contracts.

type fakeBookingRepo struct {
	bookings map[int64]*bookingDomain.Booking
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*bookingDomain.Booking), nextID: 1}
}

// rehydrate builds a fresh aggregate from the stored one, the way the GORM
// repository reconstructs from a row on every read. Callers mutate their own
// copy, so the stored state only changes through Save and Update.
func rehydrate(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(bk.ID(), bk.StartTime(), bk.EndTime(), bk.Item(),
		bk.BookerID(), bk.Status(), bk.Version(), bk.CreatedAt(), bk.UpdatedAt())
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}
	return rehydrate(bk), nil
}

func (r *fakeBookingRepo) list(match func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if match(bk) {
			out = append(out, rehydrate(bk))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime().After(out[j].StartTime())
	})
	return out
}

func (r *fakeBookingRepo) FindByBookerID(_ context.Context, bookerID int64) ([]*bookingDomain.Booking, error) {
	return r.list(func(bk *bookingDomain.Booking) bool {
		return bk.IsBookedBy(bookerID)
	}), nil
}

func (r *fakeBookingRepo) FindByBookerIDAndTimeFilter(_ context.Context, bookerID int64, filter bookingDomain.TimeFilter, now time.Time) ([]*bookingDomain.Booking, error) {
	return r.list(func(bk *bookingDomain.Booking) bool {
		return bk.IsBookedBy(bookerID) && filter.Matches(bk.StartTime(), bk.EndTime(), now)
	}), nil
}

func (r *fakeBookingRepo) FindByBookerIDAndStatus(_ context.Context, bookerID int64, status bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	return r.list(func(bk *bookingDomain.Booking) bool {
		return bk.IsBookedBy(bookerID) && bk.Status() == status
	}), nil
}

func (r *fakeBookingRepo) FindByOwnerID(_ context.Context, ownerID int64, status *bookingDomain.BookingStatus, filter *bookingDomain.TimeFilter, now time.Time) ([]*bookingDomain.Booking, error) {
	return r.list(func(bk *bookingDomain.Booking) bool {
		if !bk.IsOwnedBy(ownerID) {
			return false
		}
		if status != nil && bk.Status() != *status {
			return false
		}
		if filter != nil && !filter.Matches(bk.StartTime(), bk.EndTime(), now) {
			return false
		}
		return true
	}), nil
}

func (r *fakeBookingRepo) FindApprovedStartedByBookerForItem(_ context.Context, bookerID, itemID int64, now time.Time) ([]*bookingDomain.Booking, error) {
	return r.list(func(bk *bookingDomain.Booking) bool {
		return bk.IsBookedBy(bookerID) &&
			bk.Item().ID == itemID &&
			bk.Status() == bookingDomain.StatusApproved &&
			bk.StartTime().Before(now)
	}), nil
}

func (r *fakeBookingRepo) FindLastForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.BookingDates, error) {
	var last *bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Item().ID != itemID || !bk.EndTime().Before(now) {
			continue
		}
		if last == nil || bk.EndTime().After(last.EndTime()) {
			last = bk
		}
	}
	return toDates(last), nil
}

func (r *fakeBookingRepo) FindNextForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.BookingDates, error) {
	var next *bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Item().ID != itemID || !bk.StartTime().After(now) {
			continue
		}
		if next == nil || bk.StartTime().Before(next.StartTime()) {
			next = bk
		}
	}
	return toDates(next), nil
}

func toDates(bk *bookingDomain.Booking) *bookingDomain.BookingDates {
	if bk == nil {
		return nil
	}
	return &bookingDomain.BookingDates{
		ID:        bk.ID(),
		StartTime: bk.StartTime(),
		EndTime:   bk.EndTime(),
		Status:    bk.Status(),
	}
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	saved := bookingDomain.ReconstructBooking(r.nextID, b.StartTime(), b.EndTime(), b.Item(),
		b.BookerID(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
	r.bookings[r.nextID] = saved
	r.nextID++
	return saved, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	existing, ok := r.bookings[b.ID()]
	if !ok {
		return domain.NewNotFoundError("booking", strconv.FormatInt(b.ID(), 10))
	}
	if existing.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[b.ID()] = rehydrate(b)
	return nil
}

type fakeItemRepo struct {
	items  map[int64]*itemDomain.Item
	nextID int64
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[int64]*itemDomain.Item), nextID: 1}
}

func (r *fakeItemRepo) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
	}
	return it, nil
}

func (r *fakeItemRepo) list(match func(*itemDomain.Item) bool) []*itemDomain.Item {
	var out []*itemDomain.Item
	for _, it := range r.items {
		if match(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *fakeItemRepo) FindByOwnerID(_ context.Context, ownerID int64) ([]*itemDomain.Item, error) {
	return r.list(func(it *itemDomain.Item) bool { return it.IsOwnedBy(ownerID) }), nil
}

func (r *fakeItemRepo) FindByRequestID(_ context.Context, requestID int64) ([]*itemDomain.Item, error) {
	return r.list(func(it *itemDomain.Item) bool {
		return it.RequestID() != nil && *it.RequestID() == requestID
	}), nil
}

func (r *fakeItemRepo) SearchAvailable(_ context.Context, text string) ([]*itemDomain.Item, error) {
	return r.list(func(it *itemDomain.Item) bool {
		needle := strings.ToLower(text)
		return it.Available() &&
			(strings.Contains(strings.ToLower(it.Name()), needle) ||
				strings.Contains(strings.ToLower(it.Description()), needle))
	}), nil
}

func (r *fakeItemRepo) Save(_ context.Context, it *itemDomain.Item) (*itemDomain.Item, error) {
	saved := itemDomain.Reconstruct(r.nextID, it.OwnerID(), it.Name(), it.Description(),
		it.Available(), it.RequestID(), it.CreatedAt(), it.UpdatedAt())
	r.items[r.nextID] = saved
	r.nextID++
	return saved, nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *itemDomain.Item) error {
	if _, ok := r.items[it.ID()]; !ok {
		return domain.NewNotFoundError("item", strconv.FormatInt(it.ID(), 10))
	}
	r.items[it.ID()] = it
	return nil
}

type fakeCommentRepo struct {
	comments map[int64]*itemDomain.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*itemDomain.Comment), nextID: 1}
}

func (r *fakeCommentRepo) list(match func(*itemDomain.Comment) bool) []*itemDomain.Comment {
	var out []*itemDomain.Comment
	for _, c := range r.comments {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created().Before(out[j].Created()) })
	return out
}

func (r *fakeCommentRepo) FindByItemID(_ context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	return r.list(func(c *itemDomain.Comment) bool { return c.ItemID() == itemID }), nil
}

func (r *fakeCommentRepo) FindByItemIDAndAuthorID(_ context.Context, itemID, authorID int64) ([]*itemDomain.Comment, error) {
	return r.list(func(c *itemDomain.Comment) bool {
		return c.ItemID() == itemID && c.AuthorID() == authorID
	}), nil
}

func (r *fakeCommentRepo) Save(_ context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	saved := itemDomain.ReconstructComment(r.nextID, c.Text(), c.ItemID(), c.AuthorID(),
		c.AuthorName(), c.Created())
	r.comments[r.nextID] = saved
	r.nextID++
	return saved, nil
}

type fakeUserRepo struct {
	users  map[int64]*userDomain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*userDomain.User), nextID: 1}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", strconv.FormatInt(id, 10))
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) (*userDomain.User, error) {
	saved := userDomain.Reconstruct(r.nextID, u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
	r.users[r.nextID] = saved
	r.nextID++
	return saved, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("user", strconv.FormatInt(u.ID(), 10))
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.NewNotFoundError("user", strconv.FormatInt(id, 10))
	}
	delete(r.users, id)
	return nil
}

type fakeRequestRepo struct {
	requests map[int64]*requestDomain.ItemRequest
	nextID   int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int64]*requestDomain.ItemRequest), nextID: 1}
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id int64) (*requestDomain.ItemRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("request", strconv.FormatInt(id, 10))
	}
	return req, nil
}

func (r *fakeRequestRepo) list(match func(*requestDomain.ItemRequest) bool) []*requestDomain.ItemRequest {
	var out []*requestDomain.ItemRequest
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created().After(out[j].Created()) })
	return out
}

func (r *fakeRequestRepo) FindByRequesterID(_ context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	return r.list(func(req *requestDomain.ItemRequest) bool { return req.RequesterID() == requesterID }), nil
}

func (r *fakeRequestRepo) FindByOtherRequesters(_ context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	return r.list(func(req *requestDomain.ItemRequest) bool { return req.RequesterID() != requesterID }), nil
}

func (r *fakeRequestRepo) Save(_ context.Context, req *requestDomain.ItemRequest) (*requestDomain.ItemRequest, error) {
	saved := requestDomain.Reconstruct(r.nextID, req.Description(), req.RequesterID(), req.Created())
	r.requests[r.nextID] = saved
	r.nextID++
	return saved, nil
}

type fakePublisher struct {
	requested []int64
	resolved  []int64
}

func (p *fakePublisher) PublishBookingRequested(_ context.Context, b *bookingDomain.Booking) {
	p.requested = append(p.requested, b.ID())
}

func (p *fakePublisher) PublishBookingResolved(_ context.Context, b *bookingDomain.Booking) {
	p.resolved = append(p.resolved, b.ID())
}
