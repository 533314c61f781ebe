package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"sidequest/internal/config"
	"sidequest/internal/service"
	"sidequest/internal/store"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stagePicking
	stageNote
)

const (
	cbPickPrefix   = "pick:"
	cbDeletePrefix = "del:"
	cbDelCatPrefix = "delcat:"
	cbLogDone      = "log:done"
	cbLogCancel    = "log:cancel"
)

const skipInput = "/skip"

// conversationState tracks an in-flight /log dialog: which categories are
// toggled on, and whether we are waiting for the note.
type conversationState struct {
	stage    conversationStage
	day      time.Time
	selected []string // category ids in toggle order
}

// Bot is the single-user Telegram surface over the event store.
type Bot struct {
	api           *tgbotapi.BotAPI
	store         *store.Store
	reminderSvc   *service.ReminderService
	renderer      *Renderer
	config        *config.Config
	logger        *zap.Logger
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, st *store.Store, reminderSvc *service.ReminderService, cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:           api,
		store:         st,
		reminderSvc:   reminderSvc,
		renderer:      NewRenderer(st),
		config:        cfg,
		logger:        logger,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if update.CallbackQuery.From == nil || !b.allowed(update.CallbackQuery.From.ID) {
				continue
			}
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.Warn("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if update.Message.From == nil || !b.allowed(update.Message.From.ID) {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.Warn("handle message", zap.Error(err))
			}
		}
	}

	return nil
}

// allowed restricts the bot to its owner. Zero means no restriction, which is
// only sensible for local experiments.
func (b *Bot) allowed(userID int64) bool {
	return b.config.AllowedChatID == 0 || b.config.AllowedChatID == userID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		b.logger.Info("command", zap.String("command", msg.Command()), zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if state := b.getConversation(msg.Chat.ID); state != nil && state.stage == stageNote {
		return b.handleNoteInput(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "Not sure what to do with that. Try /log to record a quest, or /help for the full list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "log":
		return b.startLogConversation(msg)
	case "today":
		return b.handleToday(msg)
	case "month":
		return b.handleMonth(msg)
	case "stats":
		return b.handleStats(msg)
	case "wrapped":
		return b.handleWrapped(msg)
	case "categories":
		return b.handleCategories(msg)
	case "newcat":
		return b.handleNewCategory(ctx, msg)
	case "delcat":
		return b.handleDeleteCategoryMenu(msg)
	case "backup":
		return b.handleBackup(msg)
	case "ics":
		return b.handleICS(msg)
	case "skip":
		if state := b.getConversation(msg.Chat.ID); state != nil && state.stage == stageNote {
			return b.finishLog(ctx, msg.Chat.ID, state, "")
		}
		return b.sendText(msg.Chat.ID, "Nothing to skip right now.")
	case "cancel":
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "adventurer"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I track your beautifully unhinged side quests.</b>\n\nCommands:\n"+
			"• /log — record today's quests\n"+
			"• /today — what's logged today\n"+
			"• /month — calendar for this month\n"+
			"• /stats — your totals\n"+
			"• /wrapped — the yearly recap (/wrapped month for this month)\n"+
			"• /categories — list quest categories\n"+
			"• /newcat — add a category\n"+
			"• /backup — download your data\n"+
			"• /help — all commands",
		html.EscapeString(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /log — pick categories, then add an optional note\n" +
		"• /today — today's quests, with delete buttons\n" +
		"• /month — this month's calendar grid\n" +
		"• /stats — quests this month, this year, top category\n" +
		"• /wrapped — yearly recap; /wrapped month for the current month\n" +
		"• /categories — list categories\n" +
		"• /newcat Name | #ff00aa | Star — create a category\n" +
		"• /delcat — delete a category (logged quests stay)\n" +
		"• /backup — JSON backup file\n" +
		"• /ics — calendar file of all quests\n" +
		"• /cancel — abort the current dialog"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) startLogConversation(msg *tgbotapi.Message) error {
	if len(b.store.Categories()) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. Create one first: /newcat Name | #ff00aa | Star")
	}

	state := &conversationState{stage: stagePicking, day: time.Now()}
	b.setConversation(msg.Chat.ID, state)

	return b.sendWithReplyMarkup(msg.Chat.ID,
		fmt.Sprintf("🗓 Logging for <b>%s</b>.\nTap categories to toggle, then hit Log.", state.day.Format("January 2")),
		b.pickKeyboard(state))
}

func (b *Bot) handleNoteInput(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	if strings.EqualFold(text, skipInput) || text == "-" {
		text = ""
	}
	return b.finishLog(ctx, msg.Chat.ID, state, text)
}

func (b *Bot) finishLog(ctx context.Context, chatID int64, state *conversationState, note string) error {
	defer b.clearConversation(chatID)

	created, err := b.store.AddEvents(ctx, state.day, state.selected, note)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not log that: %s", html.EscapeString(err.Error())))
	}

	b.logger.Info("events logged", zap.Int("count", len(created)), zap.Time("day", state.day))

	label := "quest"
	if len(created) > 1 {
		label = fmt.Sprintf("%d quests", len(created))
	}
	return b.sendText(chatID, fmt.Sprintf("✅ Logged %s for %s.", label, state.day.Format("January 2")))
}

func (b *Bot) handleToday(msg *tgbotapi.Message) error {
	events := b.store.EventsOn(time.Now())
	if len(events) == 0 {
		return b.sendText(msg.Chat.ID, "Quiet day... nothing logged yet. /log")
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Today</b> — %d quest(s)\n", len(events)))
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, ev := range events {
		name := "Unknown quest"
		if cat, ok := b.store.CategoryByID(ev.CategoryID); ok {
			name = cat.Name
		}
		builder.WriteString(fmt.Sprintf("• %s", html.EscapeString(name)))
		if ev.Note != "" {
			builder.WriteString(fmt.Sprintf(" — “%s”", html.EscapeString(ev.Note)))
		}
		builder.WriteByte('\n')
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+shorten(name, 24), cbDeletePrefix+ev.ID),
		})
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, strings.TrimSpace(builder.String()))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.api.Send(reply)
	return err
}

func (b *Bot) handleMonth(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, b.renderer.Month(time.Now()))
}

func (b *Bot) handleStats(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, b.renderer.Stats(time.Now()))
}

func (b *Bot) handleWrapped(msg *tgbotapi.Message) error {
	monthly := strings.EqualFold(strings.TrimSpace(msg.CommandArguments()), "month")
	for _, text := range b.renderer.Wrapped(time.Now(), monthly) {
		if err := b.sendText(msg.Chat.ID, text); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleCategories(msg *tgbotapi.Message) error {
	categories := b.store.Categories()
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. /newcat Name | #ff00aa | Star")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, cat := range categories {
		builder.WriteString(fmt.Sprintf("• %s <code>%s</code> (%s)\n", html.EscapeString(cat.Name), cat.Color, cat.Icon))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

// handleNewCategory parses "/newcat Name | #color | Icon"; color and icon are
// optional and fall back to defaults.
func (b *Bot) handleNewCategory(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Usage: /newcat Name | #ff00aa | Star")
	}

	parts := strings.Split(args, "|")
	name := strings.TrimSpace(parts[0])
	color := "#ffafcc"
	icon := ""
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		color = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		icon = strings.TrimSpace(parts[2])
	}

	cat, err := b.store.AddCategory(ctx, name, color, icon)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not create the category: %s", html.EscapeString(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Category <b>%s</b> created (%s, %s).", html.EscapeString(cat.Name), cat.Color, cat.Icon))
}

func (b *Bot) handleDeleteCategoryMenu(msg *tgbotapi.Message) error {
	categories := b.store.Categories()
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "Nothing to delete.")
	}
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, cat := range categories {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+shorten(cat.Name, 28), cbDelCatPrefix+cat.ID),
		})
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, "Pick a category to delete. Logged quests stay and show up gray.")
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.api.Send(reply)
	return err
}

func (b *Bot) handleBackup(msg *tgbotapi.Message) error {
	data, err := b.store.ExportJSON()
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Backup failed: %s", html.EscapeString(err.Error())))
	}
	name := fmt.Sprintf("sidequest-backup-%s.json", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleICS(msg *tgbotapi.Message) error {
	name := fmt.Sprintf("sidequest-%s.ics", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: []byte(b.renderer.ICS()),
	})
	_, err := b.api.Send(doc)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack", zap.Error(err))
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbPickPrefix):
		return b.togglePick(chatID, cb.Message.MessageID, strings.TrimPrefix(data, cbPickPrefix))
	case data == cbLogDone:
		state := b.getConversation(chatID)
		if state == nil || len(state.selected) == 0 {
			return b.sendText(chatID, "Pick at least one category first.")
		}
		state.stage = stageNote
		return b.sendText(chatID, "📝 Add a note for these quests, or /skip.")
	case data == cbLogCancel:
		b.clearConversation(chatID)
		return b.sendText(chatID, "⏪ Cancelled.")
	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		if err := b.store.DeleteEvent(ctx, id); err != nil {
			return b.sendText(chatID, "That quest is already gone.")
		}
		b.logger.Info("event deleted", zap.String("id", id))
		return b.sendText(chatID, "🗑 Deleted.")
	case strings.HasPrefix(data, cbDelCatPrefix):
		id := strings.TrimPrefix(data, cbDelCatPrefix)
		if err := b.store.DeleteCategory(ctx, id); err != nil {
			return b.sendText(chatID, "That category is already gone.")
		}
		b.logger.Info("category deleted", zap.String("id", id))
		return b.sendText(chatID, "🗑 Category deleted. Its quests stay, rendered gray.")
	}

	return nil
}

func (b *Bot) togglePick(chatID int64, messageID int, categoryID string) error {
	state := b.getConversation(chatID)
	if state == nil || state.stage != stagePicking {
		return nil
	}

	found := false
	for i, id := range state.selected {
		if id == categoryID {
			state.selected = append(state.selected[:i], state.selected[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		state.selected = append(state.selected, categoryID)
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, b.pickKeyboard(state))
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) pickKeyboard(state *conversationState) tgbotapi.InlineKeyboardMarkup {
	selected := make(map[string]bool, len(state.selected))
	for _, id := range state.selected {
		selected[id] = true
	}

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, cat := range b.store.Categories() {
		label := cat.Name
		if selected[cat.ID] {
			label = "✅ " + label
		}
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(shorten(label, 32), cbPickPrefix+cat.ID),
		})
	}
	buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("📌 Log", cbLogDone),
		tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", cbLogCancel),
	})
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

// SendReminder pushes the daily nudge to the configured chat.
func (b *Bot) SendReminder(now time.Time) error {
	if b.config.AllowedChatID == 0 {
		return fmt.Errorf("no allowed chat configured")
	}
	return b.sendText(b.config.AllowedChatID, b.reminderSvc.DailyReminder(now))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConversation(chatID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) setConversation(chatID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
