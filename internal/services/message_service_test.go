package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
)

type MessageServiceTestSuite struct {
	suite.Suite
	env     *serviceTestEnv
	alice   dto.AuthDTO
	bob     dto.AuthDTO
	carol   dto.AuthDTO
	channel int
}

func (s *MessageServiceTestSuite) SetupTest() {
	t := s.T()
	s.env = setupServiceTestEnv(t)
	s.alice = s.env.register(t, "Alice")
	s.bob = s.env.register(t, "Bob")
	s.carol = s.env.register(t, "Carol")
	s.channel = s.env.createChannel(t, s.bob.Token, "general", true)
	s.Require().NoError(s.env.channels.Join(s.alice.Token, s.channel))
}

func TestMessageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessageServiceTestSuite))
}

func (s *MessageServiceTestSuite) TestSendValidation() {
	_, err := s.env.messages.SendToChannel(s.alice.Token, s.channel, "")
	s.ErrorIs(err, ErrInvalidMessageLength)
	_, err = s.env.messages.SendToChannel(s.alice.Token, s.channel, strings.Repeat("x", 1001))
	s.ErrorIs(err, ErrInvalidMessageLength)
	_, err = s.env.messages.SendToChannel(s.carol.Token, s.channel, "hi")
	s.ErrorIs(err, ErrNotMember)
	_, err = s.env.messages.SendToChannel(s.alice.Token, 9, "hi")
	s.ErrorIs(err, ErrChannelNotFound)
	_, err = s.env.messages.SendToChannel("bogus", s.channel, "hi")
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.env.messages.SendToChannel(s.alice.Token, s.channel, strings.Repeat("x", 1000))
	s.NoError(err)
}

func (s *MessageServiceTestSuite) TestPagination() {
	for i := 0; i < 53; i++ {
		s.env.send(s.T(), s.alice.Token, s.channel, fmt.Sprintf("message %d", i))
	}

	page, err := s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Len(page.Messages, 50)
	s.Equal(0, page.Start)
	s.Equal(50, page.End)
	s.Equal("message 52", page.Messages[0].Message)

	page, err = s.env.channels.Messages(s.bob.Token, s.channel, 50)
	s.Require().NoError(err)
	s.Len(page.Messages, 3)
	s.Equal(-1, page.End)
	s.Equal("message 0", page.Messages[2].Message)

	page, err = s.env.channels.Messages(s.bob.Token, s.channel, 53)
	s.Require().NoError(err)
	s.Empty(page.Messages)

	_, err = s.env.channels.Messages(s.bob.Token, s.channel, 54)
	s.ErrorIs(err, ErrInvalidRange)
}

func (s *MessageServiceTestSuite) TestEditAndRemove() {
	id := s.env.send(s.T(), s.alice.Token, s.channel, "original")

	s.ErrorIs(s.env.messages.Edit(s.alice.Token, 999, "x"), ErrMessageNotFound)
	s.ErrorIs(s.env.messages.Edit(s.alice.Token, id, strings.Repeat("x", 1001)), ErrMessageTooLong)
	s.Require().NoError(s.env.channels.Join(s.carol.Token, s.channel))
	err := s.env.messages.Edit(s.carol.Token, id, "hijacked")
	s.ErrorIs(err, ErrNotMessageEditor)
	s.ErrorIs(err, ErrPermissionDenied)

	s.Require().NoError(s.env.messages.Edit(s.alice.Token, id, "edited"))
	s.Require().NoError(s.env.messages.Edit(s.bob.Token, id, "edited by owner"))
	page, err := s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Equal("edited by owner", page.Messages[0].Message)

	// Editing to empty removes the message.
	s.Require().NoError(s.env.messages.Edit(s.alice.Token, id, ""))
	page, err = s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Empty(page.Messages)
	s.ErrorIs(s.env.messages.Remove(s.alice.Token, id), ErrMessageNotFound)

	other := s.env.send(s.T(), s.bob.Token, s.channel, "bye")
	s.ErrorIs(s.env.messages.Remove(s.alice.Token, -1), ErrInvalidMessageID)
	s.ErrorIs(s.env.messages.Remove(s.carol.Token, other), ErrNotMessageEditor)
	s.Require().NoError(s.env.messages.Remove(s.bob.Token, other))

	s.env.store.Lock()
	defer s.env.store.Unlock()
	s.Equal(0, s.env.store.Data().NumMessages)
}

func (s *MessageServiceTestSuite) TestPin() {
	id := s.env.send(s.T(), s.alice.Token, s.channel, "pin me")

	s.Require().NoError(s.env.messages.Pin(s.bob.Token, id))
	s.ErrorIs(s.env.messages.Pin(s.bob.Token, id), ErrAlreadyPinned)

	err := s.env.messages.Unpin(s.carol.Token, id)
	s.ErrorIs(err, ErrMessageNotFound, "non-members cannot see the message")

	s.Require().NoError(s.env.channels.Join(s.carol.Token, s.channel))
	err = s.env.messages.Unpin(s.carol.Token, id)
	s.ErrorIs(err, ErrNotMessageModerator)

	s.Require().NoError(s.env.messages.Unpin(s.alice.Token, id), "global owners moderate channels")
	s.ErrorIs(s.env.messages.Unpin(s.alice.Token, id), ErrNotPinned)

	page, err := s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.False(page.Messages[0].IsPinned)
}

func (s *MessageServiceTestSuite) TestPinInDmIsCreatorOnly() {
	dm, err := s.env.dms.Create(s.carol.Token, []int{s.alice.AuthUserID})
	s.Require().NoError(err)
	id, err := s.env.messages.SendToDm(s.alice.Token, dm, "hello")
	s.Require().NoError(err)

	s.ErrorIs(s.env.messages.Pin(s.alice.Token, id), ErrNotMessageModerator)
	s.NoError(s.env.messages.Pin(s.carol.Token, id))
}

func (s *MessageServiceTestSuite) TestReactUnreact() {
	id := s.env.send(s.T(), s.alice.Token, s.channel, "like me")

	s.ErrorIs(s.env.messages.React(s.bob.Token, id, 2), ErrInvalidReact)
	s.Require().NoError(s.env.messages.React(s.bob.Token, id, 1))
	s.ErrorIs(s.env.messages.React(s.bob.Token, id, 1), ErrAlreadyReacted)

	page, err := s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Require().Len(page.Messages[0].Reacts, 1)
	s.True(page.Messages[0].Reacts[0].IsThisUserReacted)
	s.Equal([]int{s.bob.AuthUserID}, page.Messages[0].Reacts[0].UserIDs)

	page, err = s.env.channels.Messages(s.alice.Token, s.channel, 0)
	s.Require().NoError(err)
	s.False(page.Messages[0].Reacts[0].IsThisUserReacted)

	notes, err := s.env.notifications.List(s.alice.Token)
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal("bobsmith reacted to your message in general", notes[0].NotificationMessage)

	s.Require().NoError(s.env.messages.Unreact(s.bob.Token, id, 1))
	s.ErrorIs(s.env.messages.Unreact(s.bob.Token, id, 1), ErrNotReacted)
	page, err = s.env.channels.Messages(s.bob.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Empty(page.Messages[0].Reacts)
}

func (s *MessageServiceTestSuite) TestMentionNotifiesOnce() {
	s.env.send(s.T(), s.alice.Token, s.channel, "hey @bobsmith and @bobsmith again, @carolsmith")

	notes, err := s.env.notifications.List(s.bob.Token)
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal(s.channel, notes[0].ChannelID)
	s.Equal("alicesmith tagged you in general: hey @bobsmith and @b", notes[0].NotificationMessage)

	notes, err = s.env.notifications.List(s.carol.Token)
	s.Require().NoError(err)
	s.Empty(notes, "non-members are not tagged")
}

func (s *MessageServiceTestSuite) TestNotificationsAreCapped() {
	for i := 0; i < 25; i++ {
		s.env.send(s.T(), s.alice.Token, s.channel, fmt.Sprintf("@bobsmith %d", i))
	}
	notes, err := s.env.notifications.List(s.bob.Token)
	s.Require().NoError(err)
	s.Len(notes, 20)
	s.Equal("alicesmith tagged you in general: @bobsmith 24", notes[0].NotificationMessage)
}

func (s *MessageServiceTestSuite) TestShare() {
	id := s.env.send(s.T(), s.alice.Token, s.channel, "original")
	dm, err := s.env.dms.Create(s.bob.Token, []int{s.carol.AuthUserID})
	s.Require().NoError(err)

	_, err = s.env.messages.Share(ShareInput{Token: s.bob.Token, MessageID: id, ChannelID: s.channel, DmID: dm})
	s.ErrorIs(err, ErrInvalidShareTarget)
	_, err = s.env.messages.Share(ShareInput{Token: s.bob.Token, MessageID: id, ChannelID: -1, DmID: -1})
	s.ErrorIs(err, ErrInvalidShareTarget)
	_, err = s.env.messages.Share(ShareInput{Token: s.carol.Token, MessageID: id, ChannelID: -1, DmID: dm})
	s.ErrorIs(err, ErrMessageNotFound)

	shared, err := s.env.messages.Share(ShareInput{Token: s.bob.Token, MessageID: id, Annotation: "@carolsmith look", ChannelID: -1, DmID: dm})
	s.Require().NoError(err)
	s.Greater(shared, id)

	page, err := s.env.dms.Messages(s.carol.Token, dm, 0)
	s.Require().NoError(err)
	s.Require().Len(page.Messages, 1)
	s.Equal("original @carolsmith look", page.Messages[0].Message)
	s.Equal(s.bob.AuthUserID, page.Messages[0].UserID)

	notes, err := s.env.notifications.List(s.carol.Token)
	s.Require().NoError(err)
	s.Equal("bobsmith tagged you in bobsmith, carolsmith: original @carolsmith", notes[0].NotificationMessage)
}

func (s *MessageServiceTestSuite) TestSearch() {
	s.env.send(s.T(), s.alice.Token, s.channel, "Deploy at noon")
	s.env.send(s.T(), s.bob.Token, s.channel, "lunch?")
	dm, err := s.env.dms.Create(s.alice.Token, []int{s.carol.AuthUserID})
	s.Require().NoError(err)
	_, err = s.env.messages.SendToDm(s.carol.Token, dm, "deploy went fine")
	s.Require().NoError(err)

	results, err := s.env.messages.Search(s.alice.Token, "DEPLOY")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("Deploy at noon", results[0].Message)
	s.Equal("deploy went fine", results[1].Message)

	results, err = s.env.messages.Search(s.bob.Token, "deploy")
	s.Require().NoError(err)
	s.Len(results, 1)

	_, err = s.env.messages.Search(s.bob.Token, "")
	s.ErrorIs(err, ErrInvalidQuery)
}

func (s *MessageServiceTestSuite) TestIDsNeverRepeat() {
	first := s.env.send(s.T(), s.alice.Token, s.channel, "one")
	later, err := s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "later", testEpoch.Unix()+30)
	s.Require().NoError(err)
	second := s.env.send(s.T(), s.alice.Token, s.channel, "two")
	s.Require().NoError(s.env.messages.Remove(s.alice.Token, second))
	third := s.env.send(s.T(), s.alice.Token, s.channel, "three")

	s.Less(first, later)
	s.Less(later, second)
	s.Less(second, third)

	s.Equal(1, s.env.advance(30*time.Second))
	page, err := s.env.channels.Messages(s.alice.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Equal(later, page.Messages[0].MessageID)
	s.Equal("later", page.Messages[0].Message)
}

func (s *MessageServiceTestSuite) TestSendLater() {
	now := testEpoch.Unix()

	_, err := s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "late", now-1)
	s.ErrorIs(err, ErrTimeInPast)
	_, err = s.env.messages.SendLaterToChannel(s.carol.Token, s.channel, "late", now+10)
	s.ErrorIs(err, ErrNotMember)
	_, err = s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "", now+10)
	s.ErrorIs(err, ErrInvalidMessageLength)

	id, err := s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "ping @bobsmith", now+10)
	s.Require().NoError(err)

	s.Equal(0, s.env.advance(9*time.Second))
	page, err := s.env.channels.Messages(s.alice.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Empty(page.Messages)

	s.Equal(1, s.env.advance(time.Second))
	page, err = s.env.channels.Messages(s.alice.Token, s.channel, 0)
	s.Require().NoError(err)
	s.Require().Len(page.Messages, 1)
	s.Equal(id, page.Messages[0].MessageID)
	s.Equal(now+10, page.Messages[0].TimeSent)

	notes, err := s.env.notifications.List(s.bob.Token)
	s.Require().NoError(err)
	s.Len(notes, 1)
}

func (s *MessageServiceTestSuite) TestSendLaterResolvesMentionsWhenDelivered() {
	_, err := s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "hi @carolsmith and @bobsmith", testEpoch.Unix()+10)
	s.Require().NoError(err)

	s.Require().NoError(s.env.channels.Join(s.carol.Token, s.channel))
	s.Require().NoError(s.env.channels.Leave(s.bob.Token, s.channel))

	s.Equal(1, s.env.advance(10*time.Second))

	notes, err := s.env.notifications.List(s.carol.Token)
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal("alicesmith tagged you in general: hi @carolsmith and @", notes[0].NotificationMessage)
	s.Equal(s.channel, notes[0].ChannelID)

	notes, err = s.env.notifications.List(s.bob.Token)
	s.Require().NoError(err)
	s.Empty(notes, "a member who left before delivery is not tagged")
}

func (s *MessageServiceTestSuite) TestSendLaterToRemovedDm() {
	dm, err := s.env.dms.Create(s.alice.Token, []int{s.bob.AuthUserID})
	s.Require().NoError(err)
	_, err = s.env.messages.SendLaterToDm(s.bob.Token, dm, "too late", testEpoch.Unix()+10)
	s.Require().NoError(err)

	s.Require().NoError(s.env.dms.Remove(s.alice.Token, dm))
	s.Equal(1, s.env.advance(10*time.Second))

	s.env.store.Lock()
	defer s.env.store.Unlock()
	s.Nil(s.env.store.DmByID(dm))
	s.Equal(0, s.env.store.Data().NumMessages)
}

func (s *MessageServiceTestSuite) TestResetDropsDeferredSends() {
	_, err := s.env.messages.SendLaterToChannel(s.alice.Token, s.channel, "from before", testEpoch.Unix()+10)
	s.Require().NoError(err)

	s.env.workspace.Clear()
	dave := s.env.register(s.T(), "Dave")
	ch := s.env.createChannel(s.T(), dave.Token, "fresh", true)
	s.Equal(s.channel, ch, "the new channel reuses the old id")

	s.Equal(1, s.env.advance(10*time.Second))
	page, err := s.env.channels.Messages(dave.Token, ch, 0)
	s.Require().NoError(err)
	s.Empty(page.Messages)
}

func (s *MessageServiceTestSuite) TestBotCommandsAreDispatched() {
	s.env.send(s.T(), s.alice.Token, s.channel, "/play 4")
	s.env.send(s.T(), s.alice.Token, s.channel, "not a command")

	dm, err := s.env.dms.Create(s.alice.Token, []int{s.bob.AuthUserID})
	s.Require().NoError(err)
	_, err = s.env.messages.SendToDm(s.alice.Token, dm, "/help")
	s.Require().NoError(err)

	s.Equal([]string{"/play 4"}, s.env.bot.calls)
}
