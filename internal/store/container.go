package store

import (
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
)

// Container is either a channel or a DM. Exactly one field is set.
type Container struct {
	Channel *models.Channel
	Dm      *models.Dm
}

func ChannelContainer(ch *models.Channel) Container { return Container{Channel: ch} }
func DmContainer(dm *models.Dm) Container           { return Container{Dm: dm} }

func (c Container) IsChannel() bool { return c.Channel != nil }

func (c Container) Kind() string {
	if c.IsChannel() {
		return "channel"
	}
	return "dm"
}

func (c Container) ID() int {
	if c.IsChannel() {
		return c.Channel.ID
	}
	return c.Dm.ID
}

func (c Container) Name() string {
	if c.IsChannel() {
		return c.Channel.Name
	}
	return c.Dm.Name
}

func (c Container) MemberIDs() []int {
	if c.IsChannel() {
		return c.Channel.MemberIDs
	}
	return c.Dm.MemberIDs
}

func (c Container) IsMember(userID int) bool {
	return models.ContainsID(c.MemberIDs(), userID)
}

func (c Container) Messages() []*models.Message {
	if c.IsChannel() {
		return c.Channel.Messages
	}
	return c.Dm.Messages
}

func (c Container) setMessages(msgs []*models.Message) {
	if c.IsChannel() {
		c.Channel.Messages = msgs
	} else {
		c.Dm.Messages = msgs
	}
}

// Prepend inserts m as the newest message.
func (c Container) Prepend(m *models.Message) {
	c.setMessages(append([]*models.Message{m}, c.Messages()...))
}

// RemoveMessage splices out the message with the given id. The index is looked up
// again here rather than trusted from an earlier lookup.
func (c Container) RemoveMessage(id int) bool {
	msgs := c.Messages()
	for i, m := range msgs {
		if m.ID == id {
			c.setMessages(append(msgs[:i:i], msgs[i+1:]...))
			return true
		}
	}
	return false
}

// Notification builds a notification pointing at this container.
func (c Container) Notification(text string) models.Notification {
	n := models.Notification{
		ChannelID:           constants.NoContainer,
		DmID:                constants.NoContainer,
		NotificationMessage: text,
	}
	if c.IsChannel() {
		n.ChannelID = c.Channel.ID
	} else {
		n.DmID = c.Dm.ID
	}
	return n
}
