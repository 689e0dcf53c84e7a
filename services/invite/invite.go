package invite

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"
	"unicode"

	"bcplughub/models"
	"bcplughub/services"
	"bcplughub/services/storage"
	"bcplughub/utils"

	"go.uber.org/zap"
)

const (
	folder        = "event-invites"
	maxNameLength = 30
	dateLayout    = "Mon, Jan 2 at 3:04 PM"
)

// Service renders invite posters and stores them.
type Service struct {
	Storage  storage.StorageService
	Location *time.Location
	Now      func() time.Time
}

type PreviewResult struct {
	InvitationImage string `json:"invitation_image"`
	Message         string `json:"message"`
}

// ObjectName is the storage path of a poster: event-invites/<unix>_<name>.png.
func ObjectName(functionName string, at time.Time) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(functionName) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	if name == "" {
		name = "invite"
	}
	return fmt.Sprintf("%s/%d_%s.png", folder, at.Unix(), name)
}

// FormatWhen renders the event date in the campus zone, or returns raw unchanged.
func FormatWhen(raw string, loc *time.Location) string {
	t, err := utils.ParseEventTime(raw, loc)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GeneratePreview renders the poster as PNG and uploads it.
func (s *Service) GeneratePreview(ctx context.Context, req models.InvitePreviewRequest) (*PreviewResult, error) {
	logger := utils.GetLogger()
	title := strings.TrimSpace(req.FunctionName)
	if title == "" {
		return nil, services.Invalid("Function name is required")
	}
	host := strings.TrimSpace(req.OrganizerAlias)
	if host == "" {
		host = models.DefaultOrganizerAlias
	}

	img := Render(Poster{
		Title:    title,
		Location: strings.TrimSpace(req.Location),
		When:     FormatWhen(req.Date, s.Location),
		Host:     host,
	})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}

	name := ObjectName(title, s.now())
	url, err := s.Storage.Upload(ctx, name, "image/png", &buf)
	if err != nil {
		logger.Error("poster upload failed", zap.String("object", name), zap.Error(err))
		return nil, fmt.Errorf("failed to upload invite: %w", err)
	}
	logger.Info("Invite preview generated", zap.String("object", name))
	return &PreviewResult{InvitationImage: url, Message: "Invite preview generated successfully"}, nil
}
