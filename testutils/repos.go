package testutils

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bcplughub/database"
	"bcplughub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryUserRepo is an in-memory UserRepository.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUserRepo(users ...*models.User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.CurrentFunctions = append([]models.CurrentFunction(nil), u.CurrentFunctions...)
	c.PastFunctions = append([]models.PastFunction(nil), u.PastFunctions...)
	c.TokenHashes = append([]string(nil), u.TokenHashes...)
	return &c
}

func (r *MemoryUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.BCEmail == user.BCEmail {
			return database.ErrDuplicate
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *MemoryUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.BCEmail, email) {
			return cloneUser(u), nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *MemoryUserRepo) ListSummaries() ([]models.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UserSummary, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, models.UserSummary{
			UserID:         u.ID,
			Alias:          u.AIGeneratedAlias,
			BCEmail:        u.BCEmail,
			PersonalRating: u.PersonalRating,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, nil
}

func (r *MemoryUserRepo) update(id string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return database.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateSetDocument understands the profile fields the services write.
func (r *MemoryUserRepo) UpdateSetDocument(id string, doc bson.M) error {
	return r.update(id, func(u *models.User) {
		for k, v := range doc {
			switch k {
			case "ai_generated_alias":
				u.AIGeneratedAlias = v.(string)
			case "instagram_handle":
				u.InstagramHandle = v.(string)
			case "instagram_followers":
				u.InstagramFollowers = v.([]string)
			case "instagram_follower_count":
				u.InstagramFollowerCount = v.(int)
			case "bc_club_affiliations":
				u.BCClubAffiliations = v.([]string)
			case "fcm_token":
				u.FCMToken = v.(string)
			}
		}
	})
}

func (r *MemoryUserRepo) SetPersonalRating(id string, rating float64) error {
	return r.update(id, func(u *models.User) { u.PersonalRating = rating })
}

func (r *MemoryUserRepo) AddCurrentFunction(id string, fn models.CurrentFunction) error {
	return r.update(id, func(u *models.User) { u.CurrentFunctions = append(u.CurrentFunctions, fn) })
}

func (r *MemoryUserRepo) RemoveCurrentFunction(id, eventID string) error {
	return r.update(id, func(u *models.User) {
		kept := u.CurrentFunctions[:0]
		for _, fn := range u.CurrentFunctions {
			if fn.EventID != eventID {
				kept = append(kept, fn)
			}
		}
		u.CurrentFunctions = kept
	})
}

func (r *MemoryUserRepo) AddPastFunction(id string, fn models.PastFunction) error {
	return r.update(id, func(u *models.User) { u.PastFunctions = append(u.PastFunctions, fn) })
}

func (r *MemoryUserRepo) CompleteFunction(id, eventID string, past models.PastFunction) error {
	if err := r.RemoveCurrentFunction(id, eventID); err != nil {
		return err
	}
	return r.AddPastFunction(id, past)
}

func (r *MemoryUserRepo) FinalizePastFunction(id, eventID string, finalRating float64) error {
	found := false
	err := r.update(id, func(u *models.User) {
		for i := range u.PastFunctions {
			if u.PastFunctions[i].EventID == eventID {
				rating := finalRating
				u.PastFunctions[i].FinalRating = &rating
				u.PastFunctions[i].Rating = finalRating
				u.PastFunctions[i].RatingFinalized = true
				found = true
			}
		}
	})
	if err == nil && !found {
		return database.ErrNotFound
	}
	return err
}

func (r *MemoryUserRepo) AddTokenHash(id, hash string) error {
	return r.update(id, func(u *models.User) { u.TokenHashes = append(u.TokenHashes, hash) })
}

func (r *MemoryUserRepo) RemoveTokenHash(id, hash string) error {
	return r.update(id, func(u *models.User) {
		kept := u.TokenHashes[:0]
		for _, h := range u.TokenHashes {
			if h != hash {
				kept = append(kept, h)
			}
		}
		u.TokenHashes = kept
	})
}

// MemoryEventRepo is an in-memory EventRepository.
type MemoryEventRepo struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func NewMemoryEventRepo(events ...*models.Event) *MemoryEventRepo {
	r := &MemoryEventRepo{events: map[string]*models.Event{}}
	for _, e := range events {
		r.events[e.ID] = cloneEvent(e)
	}
	return r
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	c.Attendees = append([]models.Attendee(nil), e.Attendees...)
	c.InvitedUsers = append([]string(nil), e.InvitedUsers...)
	return &c
}

func (r *MemoryEventRepo) Create(event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; ok {
		return database.ErrDuplicate
	}
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *MemoryEventRepo) GetByID(id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *MemoryEventRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *MemoryEventRepo) list(keep func(e *models.Event) bool) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, *cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *MemoryEventRepo) ListPublicUpcoming() ([]models.Event, error) {
	return r.list(func(e *models.Event) bool {
		return !e.IsPrivate() && e.Status == models.StatusUpcoming
	}), nil
}

func (r *MemoryEventRepo) ListPublicUpcomingBetween(from, to time.Time) ([]models.Event, error) {
	return r.list(func(e *models.Event) bool {
		return !e.IsPrivate() && e.Status == models.StatusUpcoming && !e.Date.Before(from) && !e.Date.After(to)
	}), nil
}

func (r *MemoryEventRepo) ListByOrganizer(organizerID, status string) ([]models.Event, error) {
	return r.list(func(e *models.Event) bool {
		return e.OrganizerUserID == organizerID && (status == "" || e.Status == status)
	}), nil
}

func (r *MemoryEventRepo) ListStartedBefore(cutoff time.Time) ([]models.Event, error) {
	return r.list(func(e *models.Event) bool { return e.Date.Before(cutoff) }), nil
}

func (r *MemoryEventRepo) AddAttendee(eventID string, attendee models.Attendee) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || e.HasAttendee(attendee.UserID) || e.RSVPCount >= e.MaxCapacity {
		return nil, database.ErrNoMatch
	}
	e.Attendees = append(e.Attendees, attendee)
	e.RSVPCount++
	return cloneEvent(e), nil
}

func (r *MemoryEventRepo) RemoveAttendee(eventID, userID string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || !e.HasAttendee(userID) {
		return nil, database.ErrNoMatch
	}
	kept := e.Attendees[:0]
	for _, a := range e.Attendees {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	e.Attendees = kept
	e.RSVPCount--
	return cloneEvent(e), nil
}

func (r *MemoryEventRepo) AddInvitees(eventID string, userIDs []string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || len(e.InvitedUsers)+len(userIDs) > e.MaxCapacity {
		return nil, database.ErrNoMatch
	}
	for _, id := range userIDs {
		if e.IsInvited(id) {
			return nil, database.ErrNoMatch
		}
	}
	e.InvitedUsers = append(e.InvitedUsers, userIDs...)
	e.InviteCount = len(e.InvitedUsers)
	return cloneEvent(e), nil
}

// MemoryHistoricalRepo is an in-memory HistoricalRepository.
type MemoryHistoricalRepo struct {
	mu     sync.Mutex
	events map[string]*models.HistoricalEvent
}

func NewMemoryHistoricalRepo(events ...*models.HistoricalEvent) *MemoryHistoricalRepo {
	r := &MemoryHistoricalRepo{events: map[string]*models.HistoricalEvent{}}
	for _, h := range events {
		c := *h
		r.events[h.OriginalEventID] = &c
	}
	return r
}

func cloneHistorical(h *models.HistoricalEvent) *models.HistoricalEvent {
	c := *h
	c.Ratings = append([]models.EventRating(nil), h.Ratings...)
	return &c
}

func (r *MemoryHistoricalRepo) Archive(event *models.HistoricalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.OriginalEventID]; ok {
		return nil
	}
	r.events[event.OriginalEventID] = cloneHistorical(event)
	return nil
}

func (r *MemoryHistoricalRepo) GetByOriginalID(eventID string) (*models.HistoricalEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.events[eventID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return cloneHistorical(h), nil
}

func (r *MemoryHistoricalRepo) List(limit, offset int64) ([]models.HistoricalEvent, error) {
	r.mu.Lock()
	all := make([]models.HistoricalEvent, 0, len(r.events))
	for _, h := range r.events {
		all = append(all, *cloneHistorical(h))
	}
	r.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if offset >= int64(len(all)) {
		return []models.HistoricalEvent{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *MemoryHistoricalRepo) AddRating(eventID string, rating models.EventRating) (*models.HistoricalEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.events[eventID]
	if !ok || h.HasRated(rating.UserID) {
		return nil, database.ErrNoMatch
	}
	h.Ratings = append(h.Ratings, rating)
	sum := 0
	for _, x := range h.Ratings {
		sum += x.Rating
	}
	h.TotalRatings = len(h.Ratings)
	h.AverageRating = float64(sum) / float64(h.TotalRatings)
	return cloneHistorical(h), nil
}

func (r *MemoryHistoricalRepo) MarkFinalized(eventID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.events[eventID]
	if !ok || h.RatingFinalized {
		return false, nil
	}
	h.RatingFinalized = true
	h.RatingFinalizedAt = &at
	return true, nil
}

func (r *MemoryHistoricalRepo) ListFinalizable(cutoff time.Time) ([]models.HistoricalEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.HistoricalEvent
	for _, h := range r.events {
		if !h.RatingFinalized && h.TotalRatings > 0 && h.Date.Before(cutoff) {
			out = append(out, *cloneHistorical(h))
		}
	}
	return out, nil
}

// MemoryNotificationRepo is an in-memory NotificationRepository.
type MemoryNotificationRepo struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewMemoryNotificationRepo(items ...models.Notification) *MemoryNotificationRepo {
	return &MemoryNotificationRepo{items: items}
}

func (r *MemoryNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *n)
	return nil
}

func (r *MemoryNotificationRepo) GetByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			n := r.items[i]
			return &n, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *MemoryNotificationRepo) ListByUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryNotificationRepo) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Read = true
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *MemoryNotificationRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

// ByType returns stored notifications of the given type.
func (r *MemoryNotificationRepo) ByType(kind string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}
