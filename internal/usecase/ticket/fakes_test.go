package ticket

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

type sentMessage struct {
	ChannelID string
	Message   entity.Message
}

type grant struct {
	ChannelID string
	UserID    string
}

// fakeGateway is an in-memory Gateway recording every call.
type fakeGateway struct {
	mu sync.Mutex

	channels []entity.Channel
	nextID   int

	created   []entity.TicketChannelSpec
	sent      []sentMessage
	replies   []entity.Reply
	followUps []entity.Reply
	grants    []grant
	deleted   []string
	deletedAt []time.Time
	msgDelete []string

	awaitResult entity.CollectResult
	awaitErr    error
	awaitFilter entity.CollectFilter
	awaitFor    time.Duration

	createErr error
	deleteErr error

	// sendStarted is signalled and sendGate awaited by SendMessage when set.
	sendStarted chan struct{}
	sendGate    chan struct{}
}

func newFakeGateway(channels ...entity.Channel) *fakeGateway {
	return &fakeGateway{channels: channels}
}

func (g *fakeGateway) ListGuildChannels(ctx context.Context, guildID string) ([]entity.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entity.Channel, len(g.channels))
	copy(out, g.channels)
	return out, nil
}

func (g *fakeGateway) CreateTicketChannel(ctx context.Context, spec entity.TicketChannelSpec) (entity.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return entity.Channel{}, g.createErr
	}
	g.nextID++
	ch := entity.Channel{
		ID:       "new-" + strconv.Itoa(g.nextID),
		GuildID:  spec.GuildID,
		Name:     spec.Name,
		Kind:     entity.ChannelKindText,
		ParentID: spec.ParentID,
	}
	g.created = append(g.created, spec)
	g.channels = append(g.channels, ch)
	return ch, nil
}

func (g *fakeGateway) GrantMember(ctx context.Context, channelID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grants = append(g.grants, grant{ChannelID: channelID, UserID: userID})
	return nil
}

func (g *fakeGateway) DeleteChannel(ctx context.Context, channelID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, channelID)
	g.deletedAt = append(g.deletedAt, time.Now())
	return g.deleteErr
}

func (g *fakeGateway) SendMessage(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	if g.sendStarted != nil {
		close(g.sendStarted)
	}
	if g.sendGate != nil {
		<-g.sendGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentMessage{ChannelID: channelID, Message: msg})
	return "msg-1", nil
}

func (g *fakeGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.msgDelete = append(g.msgDelete, messageID)
	return nil
}

func (g *fakeGateway) Reply(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, reply)
	return nil
}

func (g *fakeGateway) FollowUp(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.followUps = append(g.followUps, reply)
	return nil
}

func (g *fakeGateway) AwaitMessage(ctx context.Context, filter entity.CollectFilter, timeout time.Duration) (entity.CollectResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.awaitFilter = filter
	g.awaitFor = timeout
	return g.awaitResult, g.awaitErr
}

func (g *fakeGateway) deletedChannels() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.deleted...)
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []entity.TicketNotice
	err     error
}

func (n *fakeNotifier) Notify(ctx context.Context, notice entity.TicketNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *fakeNotifier) Name() string { return "fake" }

type recordedAction struct {
	Action  string
	Outcome string
}

type fakeMetrics struct {
	mu            sync.Mutex
	actions       []recordedAction
	deleteErrors  int
	notifications map[bool]int
}

func (m *fakeMetrics) RecordTicketAction(ctx context.Context, action, outcome string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, recordedAction{Action: action, Outcome: outcome})
}

func (m *fakeMetrics) RecordChannelDeleteError(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErrors++
}

func (m *fakeMetrics) RecordNotification(ctx context.Context, notifier string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifications == nil {
		m.notifications = map[bool]int{}
	}
	m.notifications[success]++
}

func (m *fakeMetrics) deleteErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteErrors
}

var errPlatform = errors.New("platform unavailable")

const (
	testGuildID    = "guild-1"
	testCategoryID = "cat-1"
)

func ticketCategory() entity.Channel {
	return entity.Channel{ID: testCategoryID, GuildID: testGuildID, Name: entity.TicketCategoryName, Kind: entity.ChannelKindCategory}
}

func member(id, username string) entity.Actor {
	return entity.Actor{UserID: id, Username: username, Tag: username}
}

func staff(id, username string) entity.Actor {
	a := member(id, username)
	a.Permissions = entity.PermissionManageChannels
	return a
}

func interaction(channelID string, actor entity.Actor) entity.Interaction {
	return entity.Interaction{
		Ref:       entity.InteractionRef{ID: "i-1", AppID: "app", Token: "tok"},
		GuildID:   testGuildID,
		ChannelID: channelID,
		Actor:     actor,
	}
}
