package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"bcplughub/config"
	"bcplughub/database"
	"bcplughub/database/repository"
	"bcplughub/models"
	"bcplughub/services/campusmap"
	"bcplughub/services/event"
	ai "bcplughub/services/intelligence"
	"bcplughub/services/notification"
	"bcplughub/services/user"

	"go.mongodb.org/mongo-driver/bson"
)

var functionNames = []string{
	"Mods Darty", "Improv Night", "Study Break Pizza", "Hockey Watch Party",
	"Karaoke Takeover", "Ski Club Social", "Open Mic", "Formal Pregame",
}

var vibes = [][]string{
	{"🎉", "🔥", "🍻"},
	{"😂", "🎤", "🍕"},
	{"🏒", "📺"},
	{"🎶", "✨"},
	{},
}

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.Database()

	// Clear existing users, events and notifications.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	for _, name := range []string{"users", "events", "historical_events", "notifications"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	repos := repository.NewMongoRepositories(db)
	campus := config.CampusLocation()
	notifier := &notification.DefaultNotificationService{Repo: repos.Notifications, Users: repos.Users}
	users := &user.DefaultUserService{
		Repo:        repos.Users,
		Aliases:     &ai.AliasGenerator{},
		EmailDomain: config.AppConfig.InstitutionEmailDomain,
		TokenTTL:    time.Hour,
	}
	events := &event.DefaultEventService{
		Events:     repos.Events,
		Historical: repos.Historical,
		Users:      repos.Users,
		Notifier:   notifier,
		Location:   campus,
	}

	// Simulation parameters.
	studentCount := 40
	eventCount := 16
	domain := config.AppConfig.InstitutionEmailDomain
	if domain == "" {
		domain = "bc.edu"
	}

	var students []*models.AuthResponse
	for i := 1; i <= studentCount; i++ {
		resp, err := users.Register(ctx, models.RegisterRequest{
			BCEmail:  fmt.Sprintf("eagle%02d@%s", i, domain),
			Password: "$Password1234",
			Name:     fmt.Sprintf("Eagle %d", i),
		})
		if err != nil {
			log.Fatalf("failed to register student %d: %v", i, err)
		}
		if alias, err := users.GenerateAlias(ctx, resp.UserID, ""); err == nil {
			resp.AIGeneratedAlias = alias
		}
		students = append(students, resp)
	}

	// Spread events over the next week, evenings only.
	now := time.Now().In(campus)
	created := 0
	for i := 0; i < eventCount; i++ {
		organizer := students[rand.Intn(len(students))]
		place := campusmap.Locations[rand.Intn(len(campusmap.Locations))]
		day := now.AddDate(0, 0, 1+i%7)
		date := time.Date(day.Year(), day.Month(), day.Day(), 19+rand.Intn(4), 0, 0, 0, campus)
		club := ""
		if i%3 == 0 {
			club = "BC Comedy Club"
		}

		e, err := events.CreateEvent(ctx, models.EventCreateRequest{
			FunctionName:    functionNames[i%len(functionNames)],
			Location:        place.Name,
			Date:            date.Format(time.RFC3339),
			EmojiVibe:       vibes[rand.Intn(len(vibes))],
			MaxCapacity:     20 + rand.Intn(81),
			PublicOrPrivate: models.VisibilityPublic,
			ClubAffiliated:  club != "",
			ClubName:        club,
			OrganizerUserID: organizer.UserID,
			OrganizerAlias:  organizer.AIGeneratedAlias,
		})
		if err != nil {
			log.Fatalf("failed to create event %d: %v", i, err)
		}
		created++

		// Random RSVPs, capped by capacity.
		guests := rand.Perm(len(students))[:rand.Intn(len(students)/2)]
		for _, g := range guests {
			guest := students[g]
			if guest.UserID == organizer.UserID {
				continue
			}
			if _, err := events.RSVP(ctx, e.ID, models.RSVPRequest{UserID: guest.UserID, UserAlias: guest.AIGeneratedAlias}); err != nil {
				break
			}
		}
	}

	fmt.Printf("Seeded %d students and %d events\n", len(students), created)
}
