package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/services/notification"
	"bcplughub/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

type fixture struct {
	svc           *DefaultEventService
	events        *testutils.MemoryEventRepo
	historical    *testutils.MemoryHistoricalRepo
	users         *testutils.MemoryUserRepo
	notifications *testutils.MemoryNotificationRepo
}

func newFixture(users ...*models.User) *fixture {
	f := &fixture{
		events:        testutils.NewMemoryEventRepo(),
		historical:    testutils.NewMemoryHistoricalRepo(),
		users:         testutils.NewMemoryUserRepo(users...),
		notifications: testutils.NewMemoryNotificationRepo(),
	}
	f.svc = &DefaultEventService{
		Events:     f.events,
		Historical: f.historical,
		Users:      f.users,
		Notifier: &notification.DefaultNotificationService{
			Repo:  f.notifications,
			Users: f.users,
		},
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	}
	return f
}

func student(id, email string) *models.User {
	return &models.User{
		ID:               id,
		BCEmail:          email,
		Name:             id,
		AIGeneratedAlias: "alias-" + id,
		PersonalRating:   models.DefaultPersonalRating,
	}
}

func (f *fixture) create(t *testing.T, req models.EventCreateRequest) *models.Event {
	t.Helper()
	ev, err := f.svc.CreateEvent(context.Background(), req)
	require.NoError(t, err)
	return ev
}

func TestCreateEvent_Defaults(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"))

	ev := f.create(t, models.EventCreateRequest{
		FunctionName:    "  Rooftop Mixer ",
		Location:        "Mod Lot",
		Date:            "2025-03-20T21:00:00",
		OrganizerUserID: "org",
	})

	assert.Equal(t, "Rooftop Mixer", ev.FunctionName)
	assert.Equal(t, models.DefaultMaxCapacity, ev.MaxCapacity)
	assert.Equal(t, models.VisibilityPublic, ev.PublicOrPrivate)
	assert.Equal(t, models.DefaultOrganizerAlias, ev.OrganizerAlias)
	assert.Equal(t, models.StatusUpcoming, ev.Status)
	assert.Empty(t, ev.Attendees)

	organizer, err := f.users.GetByID("org")
	require.NoError(t, err)
	require.Len(t, organizer.CurrentFunctions, 1)
	assert.Equal(t, ev.ID, organizer.CurrentFunctions[0].EventID)
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newFixture()
	cases := map[string]models.EventCreateRequest{
		"Function name is required":               {Location: "Gasson", Date: "2025-03-20T21:00:00"},
		"Location is required":                    {FunctionName: "Party", Date: "2025-03-20T21:00:00"},
		"Invalid date format":                     {FunctionName: "Party", Location: "Gasson", Date: "next friday"},
		"Max capacity must be between 1 and 1000": {FunctionName: "Party", Location: "Gasson", Date: "2025-03-20", MaxCapacity: 5000},
	}
	for want, req := range cases {
		_, err := f.svc.CreateEvent(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
		assert.Equal(t, want, err.Error())
	}
}

func TestRSVP_FullAndDuplicate(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Small Dinner", Location: "Lower", Date: "2025-03-20T19:00:00",
		MaxCapacity: 1, OrganizerUserID: "org", OrganizerAlias: "Host",
	})

	updated, err := f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1", UserAlias: "Eagle"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RSVPCount)

	_, err = f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	assert.ErrorIs(t, err, services.ErrAlreadyRSVPd)

	_, err = f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u2"})
	assert.ErrorIs(t, err, services.ErrEventFull)

	received := f.notifications.ByType(models.NotificationRSVPReceived)
	require.Len(t, received, 1)
	assert.Equal(t, "org", received[0].UserID)
}

func TestRSVP_PrivateRequiresInvite(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Secret Show", Location: "Walsh", Date: "2025-03-20T22:00:00",
		PublicOrPrivate: "private", OrganizerUserID: "org",
	})

	_, err := f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	assert.ErrorIs(t, err, services.ErrNotInvited)

	_, err = f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{InvitedUserIDs: []string{"u1"}})
	require.NoError(t, err)

	_, err = f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	assert.NoError(t, err)
}

func TestRSVP_UnknownEvent(t *testing.T) {
	f := newFixture()
	_, err := f.svc.RSVP(context.Background(), "missing", models.RSVPRequest{UserID: "u1"})
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestCancelRSVP(t *testing.T) {
	f := newFixture()
	ev := f.create(t, models.EventCreateRequest{FunctionName: "Game Night", Location: "Stokes", Date: "2025-03-20"})

	current, err := f.svc.CancelRSVP(ev.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, current.RSVPCount)

	_, err = f.svc.CancelRSVP("missing", "u1")
	assert.ErrorIs(t, err, services.ErrEventNotFound)

	_, err = f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	require.NoError(t, err)
	updated, err := f.svc.CancelRSVP(ev.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.RSVPCount)
}

func TestInviteUsers_SkipsAndNotifies(t *testing.T) {
	f := newFixture(
		student("org", "org@bc.edu"),
		student("u1", "u1@bc.edu"),
		student("u2", "u2@bc.edu"),
	)
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Formal", Location: "Corcoran Commons", Date: "2025-03-22T20:00:00",
		PublicOrPrivate: "private", OrganizerUserID: "org", OrganizerAlias: "Host",
	})

	result, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{
		InvitedUserIDs:  []string{"u1", "U2@bc.edu", "org", "ghost", "u1"},
		PersonalMessage: "bring a friend",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotificationsCreated)
	assert.Equal(t, 2, result.TotalInvited)
	assert.ElementsMatch(t, []string{"org", "ghost", "u1"}, result.Skipped)

	invites := f.notifications.ByType(models.NotificationPrivateInvite)
	require.Len(t, invites, 2)
	assert.Equal(t, "bring a friend", invites[0].Metadata["personal_message"])
	assert.True(t, invites[0].ActionRequired)
}

func TestInviteUsers_PublicRejected(t *testing.T) {
	f := newFixture(student("u1", "u1@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{FunctionName: "Open Mic", Location: "Eagles Nest", Date: "2025-03-20"})

	_, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{InvitedUserIDs: []string{"u1"}})
	assert.ErrorIs(t, err, services.ErrNotPrivate)
}

func TestInviteUsers_Capacity(t *testing.T) {
	f := newFixture(student("u1", "u1@bc.edu"), student("u2", "u2@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Tiny", Location: "Fulton", Date: "2025-03-20",
		PublicOrPrivate: "private", MaxCapacity: 1,
	})

	_, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{InvitedUserIDs: []string{"u1", "u2"}})
	var capErr *services.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Remaining)
	assert.Equal(t, "Only 1 spots remaining", err.Error())
	assert.ErrorIs(t, err, services.ErrEventFull)
}

func TestInviteUsers_CapacityCountsUnresolvedIdentifiers(t *testing.T) {
	f := newFixture(student("u1", "u1@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Tiny", Location: "Fulton", Date: "2025-03-20",
		PublicOrPrivate: "private", MaxCapacity: 1,
	})

	_, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{
		InvitedUserIDs: []string{"u1", "ghost@bc.edu"},
	})
	var capErr *services.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Remaining)
	assert.Empty(t, f.notifications.ByType(models.NotificationPrivateInvite))

	stored, err := f.svc.GetEvent(ev.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.InvitedUsers)
}

// racingInvites invites "u1" behind the service's back before the real write.
type racingInvites struct {
	*testutils.MemoryEventRepo
}

func (r racingInvites) AddInvitees(eventID string, userIDs []string) (*models.Event, error) {
	if _, err := r.MemoryEventRepo.AddInvitees(eventID, []string{"u1"}); err != nil {
		return nil, err
	}
	return r.MemoryEventRepo.AddInvitees(eventID, userIDs)
}

func TestInviteUsers_ConcurrentInviteIsNotCapacity(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	f.svc.Events = racingInvites{f.events}
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Dinner", Location: "Mods", Date: "2025-03-20T19:00:00",
		PublicOrPrivate: "private", OrganizerUserID: "org",
	})

	_, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{InvitedUserIDs: []string{"u1"}})
	assert.ErrorIs(t, err, services.ErrAlreadyInvited)
	var capErr *services.CapacityError
	assert.False(t, errors.As(err, &capErr))
}

func TestAcceptInvite(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Dinner", Location: "Mods", Date: "2025-03-20T19:00:00",
		PublicOrPrivate: "private", OrganizerUserID: "org",
	})
	_, err := f.svc.InviteUsers(context.Background(), ev.ID, models.InviteUsersRequest{InvitedUserIDs: []string{"u1"}})
	require.NoError(t, err)
	invite := f.notifications.ByType(models.NotificationPrivateInvite)[0]

	_, err = f.svc.AcceptInvite(context.Background(), invite.ID, models.RSVPRequest{UserID: "org"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := f.svc.AcceptInvite(context.Background(), invite.ID, models.RSVPRequest{})
	require.NoError(t, err)
	assert.True(t, updated.HasAttendee("u1"))
	assert.Empty(t, f.notifications.ByType(models.NotificationPrivateInvite))
}

func TestCancelEvent_SameDayPenalty(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Tailgate", Location: "Shea Field", Date: "2025-03-14T20:00:00",
		OrganizerUserID: "org",
	})
	_, err := f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	require.NoError(t, err)

	_, err = f.svc.CancelEvent(context.Background(), ev.ID, models.CancelEventRequest{UserID: "u1"})
	assert.ErrorIs(t, err, services.ErrNotOrganizer)

	result, err := f.svc.CancelEvent(context.Background(), ev.ID, models.CancelEventRequest{UserID: "org"})
	require.NoError(t, err)
	assert.True(t, result.RatingPenaltyApplied)
	assert.Equal(t, 3.0, result.NewRating)
	assert.Equal(t, 1, result.NotificationsSent)

	_, err = f.svc.GetEvent(ev.ID)
	assert.ErrorIs(t, err, services.ErrEventNotFound)
	organizer, _ := f.users.GetByID("org")
	assert.Empty(t, organizer.CurrentFunctions)
}

type failingRatingRepo struct {
	*testutils.MemoryUserRepo
}

func (r failingRatingRepo) SetPersonalRating(id string, rating float64) error {
	return errors.New("write conflict")
}

func TestCancelEvent_PenaltyWriteFailureStillNotifies(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	f.svc.Users = failingRatingRepo{f.users}
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Tailgate", Location: "Shea Field", Date: "2025-03-14T20:00:00",
		OrganizerUserID: "org",
	})
	_, err := f.svc.RSVP(context.Background(), ev.ID, models.RSVPRequest{UserID: "u1"})
	require.NoError(t, err)

	result, err := f.svc.CancelEvent(context.Background(), ev.ID, models.CancelEventRequest{UserID: "org"})
	require.NoError(t, err)
	assert.False(t, result.RatingPenaltyApplied)
	assert.Equal(t, models.DefaultPersonalRating, result.NewRating)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Len(t, f.notifications.ByType(models.NotificationFunctionCancelled), 1)

	_, err = f.svc.GetEvent(ev.ID)
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestCancelEvent_PenaltyFloor(t *testing.T) {
	org := student("org", "org@bc.edu")
	org.PersonalRating = 2.5
	f := newFixture(org)
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Brunch", Location: "Hillside", Date: "2025-03-14T11:00:00", OrganizerUserID: "org",
	})

	result, err := f.svc.CancelEvent(context.Background(), ev.ID, models.CancelEventRequest{UserID: "org"})
	require.NoError(t, err)
	assert.Equal(t, models.MinPersonalRating, result.NewRating)
}

func TestCancelEvent_AdvanceNoticeKeepsRating(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"))
	ev := f.create(t, models.EventCreateRequest{
		FunctionName: "Hike", Location: "Res", Date: "2025-03-18T09:00:00", OrganizerUserID: "org",
	})

	result, err := f.svc.CancelEvent(context.Background(), ev.ID, models.CancelEventRequest{UserID: "org", CancelledSameDay: true})
	require.NoError(t, err)
	assert.False(t, result.RatingPenaltyApplied)
	assert.Equal(t, models.DefaultPersonalRating, result.NewRating)
}

func TestArchivePastEvents(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"), student("u1", "u1@bc.edu"))
	past := f.create(t, models.EventCreateRequest{
		FunctionName: "Lunch", Location: "Addie's", Date: "2025-03-14T12:00:00", OrganizerUserID: "org",
	})
	f.create(t, models.EventCreateRequest{
		FunctionName: "Later", Location: "Addie's", Date: "2025-03-30T12:00:00", OrganizerUserID: "org",
	})
	_, err := f.svc.RSVP(context.Background(), past.ID, models.RSVPRequest{UserID: "u1"})
	require.NoError(t, err)

	result, err := f.svc.ArchivePastEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.EventsMoved)
	assert.Equal(t, 1, result.UsersUpdated)

	hist, err := f.historical.GetByOriginalID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, hist.Status)
	assert.Equal(t, 1, hist.RSVPCount)

	organizer, _ := f.users.GetByID("org")
	require.Len(t, organizer.PastFunctions, 1)
	assert.Equal(t, past.ID, organizer.PastFunctions[0].EventID)
	require.Len(t, organizer.CurrentFunctions, 1)

	requests := f.notifications.ByType(models.NotificationRateFunction)
	require.Len(t, requests, 1)
	assert.Equal(t, "u1", requests[0].UserID)
	require.NotNil(t, requests[0].ExpiresAt)
	assert.Equal(t, past.Date.Add(RatingWindow), *requests[0].ExpiresAt)

	again, err := f.svc.ArchivePastEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.EventsMoved)
}

func TestArchiveUserPastEvents_Orphaned(t *testing.T) {
	org := student("org", "org@bc.edu")
	org.CurrentFunctions = []models.CurrentFunction{{
		FunctionName: "Ghost Party",
		EventID:      "gone",
		Date:         fixedNow.Add(-48 * time.Hour),
		Status:       models.StatusUpcoming,
	}}
	f := newFixture(org)

	moved, err := f.svc.ArchiveUserPastEvents(context.Background(), "org")
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	updated, _ := f.users.GetByID("org")
	assert.Empty(t, updated.CurrentFunctions)
	require.Len(t, updated.PastFunctions, 1)
	assert.Equal(t, 0, updated.PastFunctions[0].FinalAttendeeCount)
	assert.Equal(t, models.StatusCompleted, updated.PastFunctions[0].Status)

	_, err = f.svc.ArchiveUserPastEvents(context.Background(), "nobody")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func archived(id string, participants ...string) *models.HistoricalEvent {
	ev := models.Event{
		ID:              id,
		FunctionName:    "Archived",
		Date:            fixedNow.Add(-2 * time.Hour),
		OrganizerUserID: "org",
		MaxCapacity:     10,
	}
	for _, p := range participants {
		ev.Attendees = append(ev.Attendees, models.Attendee{UserID: p})
	}
	return &models.HistoricalEvent{Event: ev, OriginalEventID: id}
}

func TestRaters_ExcludeOrganizer(t *testing.T) {
	ev := &models.Event{
		OrganizerUserID: "org",
		Attendees:       []models.Attendee{{UserID: "org"}, {UserID: "u1"}},
		InvitedUsers:    []string{"u2", "org"},
	}
	assert.ElementsMatch(t, []string{"u1", "u2"}, raters(ev))
}

func TestRateEvent_Validation(t *testing.T) {
	f := newFixture(student("org", "org@bc.edu"))
	f.historical = testutils.NewMemoryHistoricalRepo(archived("h1", "u1", "u2"))
	f.svc.Historical = f.historical
	ctx := context.Background()

	_, err := f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "u1", Rating: 6})
	assert.ErrorIs(t, err, services.ErrInvalidRating)

	_, err = f.svc.RateEvent(ctx, "missing", models.RateEventRequest{UserID: "u1", Rating: 4})
	assert.ErrorIs(t, err, services.ErrHistoricalNotFound)

	_, err = f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "stranger", Rating: 4})
	assert.ErrorIs(t, err, services.ErrNotEligibleToRate)

	_, err = f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "org", Rating: 5})
	assert.ErrorIs(t, err, services.ErrNotEligibleToRate)

	result, err := f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "u1", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalRatings)
	assert.False(t, result.RatingFinalized)

	_, err = f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "u1", Rating: 2})
	assert.ErrorIs(t, err, services.ErrAlreadyRated)
}

func TestRateEvent_WindowClosed(t *testing.T) {
	old := archived("h1", "u1")
	old.Date = fixedNow.Add(-25 * time.Hour)
	f := newFixture(student("org", "org@bc.edu"))
	f.svc.Historical = testutils.NewMemoryHistoricalRepo(old)

	_, err := f.svc.RateEvent(context.Background(), "h1", models.RateEventRequest{UserID: "u1", Rating: 3})
	assert.ErrorIs(t, err, services.ErrRatingWindowClosed)
}

func TestRateEvent_FinalizesWhenEveryoneRated(t *testing.T) {
	org := student("org", "org@bc.edu")
	org.PersonalRating = 4.0
	org.PastFunctions = []models.PastFunction{{CurrentFunction: models.CurrentFunction{EventID: "h1"}}}
	f := newFixture(org)
	hist := testutils.NewMemoryHistoricalRepo(archived("h1", "u1", "u2"))
	f.svc.Historical = hist
	ctx := context.Background()

	_, err := f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "u1", Rating: 5})
	require.NoError(t, err)
	result, err := f.svc.RateEvent(ctx, "h1", models.RateEventRequest{UserID: "u2", Rating: 2})
	require.NoError(t, err)
	assert.True(t, result.RatingFinalized)
	assert.Equal(t, 3.5, result.AverageRating)

	updated, _ := f.users.GetByID("org")
	assert.Equal(t, 3.5, updated.PersonalRating)
	require.NotNil(t, updated.PastFunctions[0].FinalRating)
	assert.Equal(t, 3.5, *updated.PastFunctions[0].FinalRating)

	ok, err := f.svc.FinalizeRating(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFinalizeDueRatings(t *testing.T) {
	due := archived("h1", "u1", "u2")
	due.Date = fixedNow.Add(-30 * time.Hour)
	due.Ratings = []models.EventRating{{UserID: "u1", Rating: 4}}
	due.TotalRatings = 1
	due.AverageRating = 4
	fresh := archived("h2", "u1")
	fresh.TotalRatings = 1
	fresh.AverageRating = 5

	f := newFixture(student("org", "org@bc.edu"))
	f.svc.Historical = testutils.NewMemoryHistoricalRepo(due, fresh)

	n, err := f.svc.FinalizeDueRatings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, _ := f.users.GetByID("org")
	assert.Equal(t, 4.0, updated.PersonalRating)
}

func TestBlendRating(t *testing.T) {
	assert.Equal(t, 3.0, BlendRating(5.0, 0, 3.0))
	assert.Equal(t, 4.3, BlendRating(4.5, 2, 4.0))
	assert.Equal(t, models.MinPersonalRating, BlendRating(1.0, 0, 0.5))
}
