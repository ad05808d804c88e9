package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"earnly/config"
	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway is the inbound edge: it long-polls Telegram, parses commands and
// callback queries and dispatches them into the core services. All business
// rules live behind the services; the gateway only translates.
type Gateway struct {
	bot *tgbotapi.BotAPI
	cfg *config.TelegramConfig

	ledger     *service.LedgerService
	claims     *service.ClaimService
	referrals  *service.ReferralService
	bonus      *service.BonusService
	orders     *service.OrderService
	catalog    *service.CatalogService
	membership *service.MembershipService
}

func NewGateway(
	bot *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	ledger *service.LedgerService,
	claims *service.ClaimService,
	referrals *service.ReferralService,
	bonus *service.BonusService,
	orders *service.OrderService,
	catalog *service.CatalogService,
	membership *service.MembershipService,
) *Gateway {
	return &Gateway{
		bot: bot, cfg: cfg,
		ledger: ledger, claims: claims, referrals: referrals,
		bonus: bonus, orders: orders, catalog: catalog, membership: membership,
	}
}

// Run polls for updates until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = g.cfg.PollTimeoutSec
	updates := g.bot.GetUpdatesChan(u)
	log.Printf("[telegram] polling as @%s", g.bot.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			g.bot.StopReceivingUpdates()
			log.Printf("[telegram] stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			g.handleUpdate(update)
		}
	}
}

func (g *Gateway) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		g.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		g.handleCallback(update.CallbackQuery)
	}
}

func (g *Gateway) handleMessage(m *tgbotapi.Message) {
	uid := m.From.ID
	username := m.From.UserName
	if username == "" {
		username = m.From.FirstName
	}

	// Proof photos arrive as a photo with "/proof <id>" in the caption.
	if len(m.Photo) > 0 && strings.HasPrefix(m.Caption, "/proof") {
		g.handleProof(uid, m.Caption, m.Photo[len(m.Photo)-1].FileID)
		return
	}

	if !m.IsCommand() {
		g.reply(m.Chat.ID, "Commands: /start, /balance, /bonus, /ref, /transfer, /order, /orders, /proof")
		return
	}

	args := strings.Fields(m.CommandArguments())
	switch m.Command() {
	case "start":
		g.handleStart(uid, username, args)
	case "bonus":
		g.handleBonus(uid)
	case "ref":
		g.handleRef(uid, username)
	case "balance":
		bal, err := g.ledger.Balance(uid)
		if err != nil {
			g.reply(uid, errText(err))
			return
		}
		g.reply(uid, fmt.Sprintf("Your balance: %s", domain.FormatCents(bal)))
	case "transfer", "pay":
		g.handleTransfer(uid, args)
	case "order":
		g.handleOrder(uid, username, strings.TrimSpace(m.CommandArguments()))
	case "orders":
		g.handleOrderList(uid)
	case "proof":
		g.reply(uid, "Attach the screenshot to the message: send a photo with the caption /proof <claim_id>.")
	case "add_asset":
		g.adminOnly(uid, func() { g.handleAddAsset(uid, args) })
	case "list_assets":
		g.adminOnly(uid, func() { g.handleListAssets(uid) })
	case "create_ad":
		g.adminOnly(uid, func() { g.handleCreateAd(uid, args) })
	case "approve":
		g.adminOnly(uid, func() { g.handleAdjudicate(uid, args, true) })
	case "reject":
		g.adminOnly(uid, func() { g.handleAdjudicate(uid, args, false) })
	case "transactions":
		g.adminOnly(uid, func() { g.handleTransactions(uid) })
	default:
		g.reply(m.Chat.ID, "Unknown command. Try /start.")
	}
}

func (g *Gateway) handleStart(uid int64, username string, args []string) {
	if err := g.ledger.EnsureAccount(uid, username); err != nil {
		g.reply(uid, errText(err))
		return
	}
	if len(args) > 0 {
		if refID, ok := service.ParseCode(args[0]); ok {
			if _, err := g.referrals.Attribute(uid, refID); err != nil {
				log.Printf("[telegram] referral attribution for %d: %v", uid, err)
			}
		}
	}
	// Gate on required channels; joining pays the channel's reward once.
	missing, err := g.membership.EnforceRequired(uid)
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	if len(missing) > 0 {
		var b strings.Builder
		b.WriteString("To use the bot, join these channels and send /start again:\n")
		for _, ch := range missing {
			fmt.Fprintf(&b, "https://t.me/%s\n", strings.TrimPrefix(ch, "@"))
		}
		g.reply(uid, strings.TrimSpace(b.String()))
		return
	}
	g.reply(uid, fmt.Sprintf("Welcome, %s! Use /balance, /bonus, /ref and /order to get going.", username))
}

func (g *Gateway) handleBonus(uid int64) {
	amount, err := g.bonus.ClaimDaily(uid)
	if err != nil {
		if ce, ok := domain.IsCooldown(err); ok {
			g.reply(uid, fmt.Sprintf("You already took today's bonus. Next one in %s.", ce.Remaining.Round(time.Second)))
			return
		}
		g.reply(uid, errText(err))
		return
	}
	bal, _ := g.ledger.Balance(uid)
	g.reply(uid, fmt.Sprintf("Daily bonus: +%s. New balance: %s", domain.FormatCents(amount), domain.FormatCents(bal)))
}

func (g *Gateway) handleRef(uid int64, username string) {
	if err := g.ledger.EnsureAccount(uid, username); err != nil {
		g.reply(uid, errText(err))
		return
	}
	acct, err := g.ledger.GetAccount(uid)
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", g.bot.Self.UserName, acct.ReferralCode())
	g.reply(uid, fmt.Sprintf("Your referral link:\n%s\nEach new user earns you +%s.",
		link, domain.FormatCents(g.referrals.BonusCents())))
}

func (g *Gateway) handleTransfer(uid int64, args []string) {
	if len(args) < 2 {
		g.reply(uid, "Usage: /transfer <to_user_id> <amount>")
		return
	}
	toID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		g.reply(uid, "Recipient must be a numeric Telegram ID.")
		return
	}
	amount, ok := domain.ParseAmount(args[1])
	if !ok {
		g.reply(uid, "Amount must be a number like 3 or 3.50.")
		return
	}
	if err := g.ledger.Transfer(uid, toID, amount); err != nil {
		g.reply(uid, errText(err))
		return
	}
	bal, _ := g.ledger.Balance(uid)
	g.reply(uid, fmt.Sprintf("Sent %s to %d. New balance: %s",
		domain.FormatCents(amount), toID, domain.FormatCents(bal)))
}

func (g *Gateway) handleOrder(uid int64, username, text string) {
	order, err := g.orders.PlaceOrder(uid, username, text)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			g.reply(uid, "Usage: /order <order text>")
			return
		}
		g.reply(uid, errText(err))
		return
	}
	g.reply(uid, fmt.Sprintf("Order accepted. ID: %d", order.ID))
}

func (g *Gateway) handleOrderList(uid int64) {
	orders, err := g.orders.ListByUser(uid, 10)
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	if len(orders) == 0 {
		g.reply(uid, "You have no orders.")
		return
	}
	var b strings.Builder
	for _, o := range orders {
		fmt.Fprintf(&b, "#%d [%s] %s\n%s\n\n", o.ID, o.Status, o.CreatedAt.Format("2006-01-02 15:04"), o.Text)
	}
	g.reply(uid, strings.TrimSpace(b.String()))
}

func (g *Gateway) handleProof(uid int64, caption, fileID string) {
	parts := strings.Fields(caption)
	if len(parts) < 2 {
		g.reply(uid, "Usage: send the photo with caption /proof <claim_id>.")
		return
	}
	claimID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		g.reply(uid, "Claim id must be a number.")
		return
	}
	if err := g.claims.AttachProof(uint(claimID), uid, fileID); err != nil {
		g.reply(uid, errText(err))
		return
	}
}

func (g *Gateway) handleAddAsset(uid int64, args []string) {
	// /add_asset <TYPE> <ID> <title> <reward> <penalty> <required yes/no>
	if len(args) < 6 {
		g.reply(uid, "Usage: /add_asset <TYPE> <ID> <title> <reward> <penalty> <required yes/no>")
		return
	}
	reward, okR := domain.ParseAmount(args[3])
	penalty, okP := domain.ParseAmount(args[4])
	if !okR || !okP {
		g.reply(uid, "Reward and penalty must be numbers.")
		return
	}
	required := false
	switch strings.ToLower(args[5]) {
	case "yes", "y", "true", "1":
		required = true
	}
	asset := &models.Asset{
		ID:                args[1],
		Type:              args[0],
		Title:             args[2],
		OwnerID:           uid,
		AdEnabled:         true,
		RequiredSubscribe: required,
		RewardCents:       reward,
		PenaltyCents:      penalty,
	}
	if err := g.catalog.UpsertAsset(asset); err != nil {
		g.reply(uid, errText(err))
		return
	}
	g.reply(uid, fmt.Sprintf("Asset saved: %s (%s)", asset.ID, asset.Type))
}

func (g *Gateway) handleListAssets(uid int64) {
	assets, err := g.catalog.ListAssets()
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	if len(assets) == 0 {
		g.reply(uid, "No assets yet.")
		return
	}
	var b strings.Builder
	for _, a := range assets {
		required := "no"
		if a.RequiredSubscribe {
			required = "yes"
		}
		fmt.Fprintf(&b, "%s [%s] %s - reward:%s penalty:%s required:%s\n",
			a.ID, a.Type, a.Title, domain.FormatCents(a.RewardCents), domain.FormatCents(a.PenaltyCents), required)
	}
	g.reply(uid, strings.TrimSpace(b.String()))
}

func (g *Gateway) handleCreateAd(uid int64, args []string) {
	// /create_ad <asset_id> <budget> <worker_slots> <text...>
	if len(args) < 4 {
		g.reply(uid, "Usage: /create_ad <asset_id> <budget> <worker_slots> <text>")
		return
	}
	budget, okB := domain.ParseAmount(args[1])
	slots, err := strconv.Atoi(args[2])
	if !okB || err != nil {
		g.reply(uid, "Budget or worker count is malformed.")
		return
	}
	text := strings.Join(args[3:], " ")
	ad, err := g.catalog.CreateAd(uid, args[0], budget, slots, text)
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	g.reply(uid, fmt.Sprintf("Ad created and posted to %s. ID: %d", g.cfg.OwnerChannel, ad.ID))
}

func (g *Gateway) handleAdjudicate(uid int64, args []string, approve bool) {
	if len(args) < 1 {
		g.reply(uid, "Usage: /approve <claim_id> or /reject <claim_id>")
		return
	}
	claimID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		g.reply(uid, "Claim id must be a number.")
		return
	}
	if approve {
		if _, err := g.claims.Approve(uint(claimID), uid); err != nil {
			g.reply(uid, errText(err))
		}
		return
	}
	if err := g.claims.Reject(uint(claimID), uid); err != nil {
		g.reply(uid, errText(err))
	}
}

func (g *Gateway) handleTransactions(uid int64) {
	txs, err := g.ledger.RecentTransactions(30)
	if err != nil {
		g.reply(uid, errText(err))
		return
	}
	if len(txs) == 0 {
		g.reply(uid, "No transactions yet.")
		return
	}
	var b strings.Builder
	for _, t := range txs {
		from, to := "system", "system"
		if t.FromID != nil {
			from = strconv.FormatInt(*t.FromID, 10)
		}
		if t.ToID != nil {
			to = strconv.FormatInt(*t.ToID, 10)
		}
		fmt.Fprintf(&b, "%d %s %s from:%s to:%s\n", t.ID, t.Kind, domain.FormatCents(t.AmountCents), from, to)
	}
	g.reply(uid, strings.TrimSpace(b.String()))
}

func (g *Gateway) handleCallback(cq *tgbotapi.CallbackQuery) {
	uid := cq.From.ID
	data := cq.Data
	answer := func(text string) {
		if _, err := g.bot.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
			log.Printf("[telegram] answer callback: %v", err)
		}
	}
	switch {
	case strings.HasPrefix(data, "claim:"):
		adID, err := strconv.ParseUint(strings.TrimPrefix(data, "claim:"), 10, 64)
		if err != nil {
			answer("Bad claim action.")
			return
		}
		if _, err := g.claims.CreateClaim(uint(adID), uid); err != nil {
			answer(errText(err))
			return
		}
		answer("Claim created, check your private messages.")
	case strings.HasPrefix(data, "approve:"):
		if !g.isAdmin(uid) {
			answer("Admins only.")
			return
		}
		claimID, err := strconv.ParseUint(strings.TrimPrefix(data, "approve:"), 10, 64)
		if err != nil {
			answer("Bad approve action.")
			return
		}
		if _, err := g.claims.Approve(uint(claimID), uid); err != nil {
			answer(errText(err))
			return
		}
		answer("Approved.")
	case strings.HasPrefix(data, "reject:"):
		if !g.isAdmin(uid) {
			answer("Admins only.")
			return
		}
		claimID, err := strconv.ParseUint(strings.TrimPrefix(data, "reject:"), 10, 64)
		if err != nil {
			answer("Bad reject action.")
			return
		}
		if err := g.claims.Reject(uint(claimID), uid); err != nil {
			answer(errText(err))
			return
		}
		answer("Rejected.")
	default:
		answer("Unknown action.")
	}
}

func (g *Gateway) adminOnly(uid int64, fn func()) {
	if !g.isAdmin(uid) {
		g.reply(uid, "Admins only.")
		return
	}
	fn()
}

func (g *Gateway) isAdmin(uid int64) bool {
	for _, id := range g.cfg.AdminIDs {
		if id == uid {
			return true
		}
	}
	return false
}

func (g *Gateway) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := g.bot.Send(msg); err != nil {
		log.Printf("[telegram] send to %d: %v", chatID, err)
	}
}

// errText converts domain errors into user-facing messages.
func errText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return "Already processed."
	case errors.Is(err, domain.ErrInvalidState):
		return "That action is not possible right now."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Insufficient balance."
	case errors.Is(err, domain.ErrValidation):
		return "Invalid input: " + err.Error()
	default:
		if ce, ok := domain.IsCooldown(err); ok {
			return fmt.Sprintf("On cooldown for %s.", ce.Remaining.Round(time.Second))
		}
		return "Something went wrong, try again later."
	}
}
