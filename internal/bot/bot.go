package bot

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

const (
	botNameFirst = "Hangman"
	botNameLast  = "Bot"
)

const (
	minWordLength = 3
	maxWordLength = 6
)

const helpText = "Welcome to Hangman!\n" +
	"Commands:\n" +
	"/play [setting] - starts a game. [setting] is a word length from 3 to 6 or a category (animals, colours, fruits); leave it out for a random word.\n" +
	"/guess [letter] - guesses one English letter.\n" +
	"/stop - ends the game.\n" +
	"/help - shows this message."

// MessageCounter records messages in the usage statistics.
type MessageCounter interface {
	MessageSent(author *models.User)
}

// Hangman plays one game per channel and answers as its own user.
type Hangman struct {
	store   *store.Store
	clock   scheduler.Clock
	counter MessageCounter
	intn    func(n int) int
	games   map[int]*game
}

// NewHangman creates the bot. counter may be nil. intn picks random indexes; nil uses math/rand.
func NewHangman(st *store.Store, clock scheduler.Clock, counter MessageCounter, intn func(n int) int) *Hangman {
	if intn == nil {
		intn = rand.Intn
	}
	return &Hangman{
		store:   st,
		clock:   clock,
		counter: counter,
		intn:    intn,
		games:   map[int]*game{},
	}
}

// Dispatch handles a command posted in a channel. Caller holds the store lock.
func (h *Hangman) Dispatch(channelID int, text string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/play":
		h.play(channelID, arg)
	case "/guess":
		h.guess(channelID, arg)
	case "/stop":
		h.stop(channelID)
	case "/help":
		h.post(channelID, helpText)
	default:
		slog.Debug("bot: Ignoring unknown command", "channel_id", channelID, "command", cmd)
	}
}

// current returns the channel's game, dropping games left over from before a reset.
func (h *Hangman) current(channelID int) *game {
	g, ok := h.games[channelID]
	if !ok {
		return nil
	}
	if g.generation != h.store.Generation() {
		delete(h.games, channelID)
		return nil
	}
	return g
}

func (h *Hangman) pick(words []string) string {
	return words[h.intn(len(words))]
}

func (h *Hangman) play(channelID int, setting string) {
	if h.current(channelID) != nil {
		h.post(channelID, "A game is already running! Use /stop to end it.")
		return
	}

	var word string
	if setting == "" {
		word = h.pick(wordsByLength[minWordLength+h.intn(maxWordLength-minWordLength+1)])
	} else if n, err := strconv.Atoi(setting); err == nil {
		words, ok := wordsByLength[n]
		if !ok {
			h.post(channelID, "Please specify a word length from 3-6 or a category (animals, colours or fruits)")
			return
		}
		word = h.pick(words)
	} else if words, ok := categories[strings.ToLower(setting)]; ok {
		word = h.pick(words)
	} else {
		h.post(channelID, "Please specify a word length from 3-6 or a category (animals, colours or fruits)")
		return
	}

	g := newGame(word, h.store.Generation())
	h.games[channelID] = g
	h.post(channelID, "Welcome to Hangman!\n"+g.board()+"Make a Guess!")
}

func (h *Hangman) guess(channelID int, arg string) {
	g := h.current(channelID)
	if g == nil {
		h.post(channelID, "Not in a game right now! use /play to start a game!")
		return
	}
	letter, size := utf8.DecodeRuneInString(arg)
	if size != len(arg) || letter > unicode.MaxASCII || !unicode.IsLetter(letter) {
		h.post(channelID, "Your guess is not a letter, please guess a single letter!")
		return
	}

	switch g.guess(letter) {
	case outcomeRepeat:
		h.post(channelID, "You have already guessed that letter! Guess something else")
	case outcomeHit:
		h.post(channelID, "Correct Guess!\n"+g.board()+"Make another Guess!")
	case outcomeMiss:
		h.post(channelID, "Incorrect Guess :[\n"+g.board()+"Make another Guess!")
	case outcomeWon:
		delete(h.games, channelID)
		h.post(channelID, fmt.Sprintf("Correct Guess!\n%sCONGRATULATIONS! YOU WIN!!\nYour Score: %d", g.board(), g.lives))
	case outcomeLost:
		delete(h.games, channelID)
		h.post(channelID, fmt.Sprintf("Incorrect Guess :[\n%sYou Lose... :[\nThe Word Was '%s'", g.board(), g.word))
	}
}

func (h *Hangman) stop(channelID int) {
	delete(h.games, channelID)
	h.post(channelID, "Game has been ended!")
}

// botUser finds or creates the bot's account. The account has no usable password and is
// remembered by id, so nobody can take it over through its email.
func (h *Hangman) botUser() *models.User {
	d := h.store.Data()
	if d.BotUserID != nil {
		if u := h.store.UserByID(*d.BotUserID); u != nil {
			return u
		}
	}
	u := &models.User{
		Email:     constants.BotEmail,
		NameFirst: botNameFirst,
		NameLast:  botNameLast,
		Handle:    h.store.UniqueHandle(botNameFirst, botNameLast),
	}
	h.store.AddUser(u)
	id := u.ID
	d.BotUserID = &id
	return u
}

func (h *Hangman) post(channelID int, text string) {
	ch := h.store.ChannelByID(channelID)
	if ch == nil {
		return
	}
	bot := h.botUser()
	store.ChannelContainer(ch).Prepend(&models.Message{
		ID:       h.store.AllocateMessageID(false),
		UserID:   bot.ID,
		Text:     text,
		TimeSent: h.clock.Now().Unix(),
		Reacts:   []models.React{},
	})
	if h.counter != nil {
		h.counter.MessageSent(bot)
	}
}
