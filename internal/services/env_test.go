package services

import (
	"context"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/events"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

const testPassword = "password123"

var testEpoch = time.Unix(1_700_000_000, 0)

type codeRecorder struct {
	mu    sync.Mutex
	codes map[string]string
}

func (r *codeRecorder) SendResetCode(email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = code
	return nil
}

func (r *codeRecorder) code(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[email]
}

type dispatchRecorder struct {
	calls []string
}

func (d *dispatchRecorder) Dispatch(channelID int, text string) {
	d.calls = append(d.calls, text)
}

// photoRecorder stands in for the image store; it records the last crop box.
type photoRecorder struct {
	url string
	err error
	box image.Rectangle
}

func (p *photoRecorder) SaveCropped(_ context.Context, _ int, _ string, box image.Rectangle) (string, error) {
	p.box = box
	if p.err != nil {
		return "", p.err
	}
	return p.url, nil
}

type serviceTestEnv struct {
	store  *store.Store
	clock  *scheduler.FakeClock
	sched  *scheduler.Scheduler
	events *events.Recorder
	codes  *codeRecorder
	bot    *dispatchRecorder
	photos *photoRecorder

	auth          *AuthService
	channels      *ChannelService
	dms           *DmService
	messages      *MessageService
	standups      *StandupService
	notifications *NotificationService
	stats         *StatsService
	delivery      *DeliveryService
	users         *UserService
	admin         *AdminService
	workspace     *WorkspaceService
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	st := store.New()
	clock := scheduler.NewFakeClock(testEpoch)
	sched := scheduler.New(clock)
	recorder := &events.Recorder{}
	codes := &codeRecorder{codes: map[string]string{}}
	bot := &dispatchRecorder{}
	photos := &photoRecorder{url: "http://localhost:8080/img/photo.jpg"}

	notifier := NewNotificationService(st)
	stats := NewStatsService(st, clock, recorder)
	delivery := NewDeliveryService(st, sched, clock, notifier, stats)

	return &serviceTestEnv{
		store:  st,
		clock:  clock,
		sched:  sched,
		events: recorder,
		codes:  codes,
		bot:    bot,
		photos: photos,

		auth:          NewAuthService(st, stats, codes),
		channels:      NewChannelService(st, notifier, stats),
		dms:           NewDmService(st, notifier, stats),
		messages:      NewMessageService(st, clock, notifier, stats, delivery, bot),
		standups:      NewStandupService(st, clock, delivery),
		notifications: notifier,
		stats:         stats,
		delivery:      delivery,
		users:         NewUserService(st, photos),
		admin:         NewAdminService(st),
		workspace:     NewWorkspaceService(st),
	}
}

// register signs up "<first> Smith" as <first>@example.com. The handle is "<first>smith".
func (e *serviceTestEnv) register(t *testing.T, first string) dto.AuthDTO {
	t.Helper()
	auth, err := e.auth.Register(RegisterInput{
		Email:     strings.ToLower(first) + "@example.com",
		Password:  testPassword,
		NameFirst: first,
		NameLast:  "Smith",
	})
	require.NoError(t, err)
	return auth
}

func (e *serviceTestEnv) createChannel(t *testing.T, token, name string, public bool) int {
	t.Helper()
	id, err := e.channels.Create(CreateChannelInput{Token: token, Name: name, IsPublic: public})
	require.NoError(t, err)
	return id
}

func (e *serviceTestEnv) send(t *testing.T, token string, channelID int, text string) int {
	t.Helper()
	id, err := e.messages.SendToChannel(token, channelID, text)
	require.NoError(t, err)
	return id
}

// advance moves the clock forward and fires whatever became due.
func (e *serviceTestEnv) advance(d time.Duration) int {
	e.clock.Advance(d)
	return e.sched.RunDue()
}
