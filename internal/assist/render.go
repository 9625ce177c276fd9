// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file is the intent response renderer: a pure mapping from one backend
// reply to transcript messages. Render never returns an error; malformed or
// missing fields degrade to fixed fallback sentences.

package assist

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/platefront/assist-tui/internal/transcript"
)

// FollowUpDelay is how long after the first escalation message the
// suggested-actions list is appended. The pause models the backend
// "thinking out loud" pacing and must not block the first message.
const FollowUpDelay = time.Second

// Result is the output of one Render call. Messages are appended to the
// transcript immediately, in order. Deferred, when non-nil, is appended by
// the session state machine after FollowUpDelay.
type Result struct {
	Messages []*transcript.Message
	Deferred *transcript.Message
}

// =============================================================================
// FIXED SENTENCES
// =============================================================================

const (
	fallbackGeneric    = "Sorry, I could not understand that. Could you rephrase it?"
	fallbackUnknown    = "I did not quite get that. Could you put it differently?"
	fallbackEscalation = "I have passed your request on to our support team."
)

// emptySentences holds the intent-specific "nothing found" sentence for each
// list intent.
var emptySentences = map[Intent]string{
	IntentBudgetMenuSearch: "I could not find any menu items within that budget.",
	IntentOrderStatus:      "You have no recent orders I could find.",
	IntentRestaurantInfo:   "I could not find any matching restaurants.",
	IntentMenuDetails:      "I could not find menu details for that restaurant.",
	IntentDrinksMenu:       "I could not find a drinks menu for that restaurant.",
	IntentProductSearch:    "I could not find any matching products.",
	IntentFAQ:              "I could not find an answer for that in our FAQ.",
	IntentReviewInfo:       "There are no reviews for that yet.",
	IntentLoyaltyStatus:    "You have no loyalty points on record yet.",
	IntentPaymentHistory:   "I could not find any payments on your account.",
	IntentDriverInfo:       "No driver is assigned to your order yet.",
	IntentPayoutInfo:       "There are no payouts on record for this period.",
}

// intentLabels gives each list intent a display label for synthesized
// headers ("Order status: 2 results").
var intentLabels = map[Intent]string{
	IntentBudgetMenuSearch: "Menu items in budget",
	IntentOrderStatus:      "Order status",
	IntentRestaurantInfo:   "Restaurants",
	IntentMenuDetails:      "Menu",
	IntentDrinksMenu:       "Drinks",
	IntentProductSearch:    "Products",
	IntentFAQ:              "FAQ",
	IntentReviewInfo:       "Reviews",
	IntentLoyaltyStatus:    "Loyalty status",
	IntentPaymentHistory:   "Payment history",
	IntentDriverInfo:       "Driver",
	IntentPayoutInfo:       "Payouts",
}

// orderStatusLabels localizes wire order statuses for display. Unmapped
// statuses render verbatim.
var orderStatusLabels = map[string]string{
	"pending":    "Order received",
	"confirmed":  "Confirmed",
	"preparing":  "In preparation",
	"delivering": "Out for delivery",
	"on_the_way": "Out for delivery",
	"delivered":  "Delivered",
	"cancelled":  "Cancelled",
}

// OrderStatusLabel returns the display label for a wire order status.
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

// =============================================================================
// RENDER
// =============================================================================

// Render maps one backend reply to transcript messages. Pure for a given
// wall-clock instant: identical replies produce token-for-token identical
// message text.
func Render(reply Reply) Result {
	switch reply.Intent {
	case IntentBudgetMenuSearch:
		return renderMenuList(reply, reply.Items, budgetHeader(reply))
	case IntentMenuDetails:
		return renderMenuList(reply, reply.MenuItems, listHeader(reply, len(reply.MenuItems)))
	case IntentDrinksMenu:
		return renderMenuList(reply, reply.Drinks, listHeader(reply, len(reply.Drinks)))
	case IntentProductSearch:
		return renderMenuList(reply, reply.Products, listHeader(reply, len(reply.Products)))

	case IntentOrderStatus:
		return renderTextList(reply, len(reply.Orders), func(i int) string { return orderBlock(i+1, reply.Orders[i]) })
	case IntentRestaurantInfo:
		return renderTextList(reply, len(reply.Restaurants), func(i int) string { return restaurantBlock(i+1, reply.Restaurants[i]) })
	case IntentFAQ:
		return renderTextList(reply, len(reply.FAQs), func(i int) string { return faqBlock(i+1, reply.FAQs[i]) })
	case IntentReviewInfo:
		return renderTextList(reply, len(reply.Reviews), func(i int) string { return reviewBlock(i+1, reply.Reviews[i]) })
	case IntentLoyaltyStatus:
		return renderTextList(reply, len(reply.Loyalty), func(i int) string { return loyaltyBlock(i+1, reply.Loyalty[i]) })
	case IntentPaymentHistory:
		return renderTextList(reply, len(reply.Payments), func(i int) string { return paymentBlock(i+1, reply.Payments[i]) })
	case IntentDriverInfo:
		return renderTextList(reply, len(reply.Drivers), func(i int) string { return driverBlock(i+1, reply.Drivers[i]) })
	case IntentPayoutInfo:
		return renderTextList(reply, len(reply.Payouts), func(i int) string { return payoutBlock(i+1, reply.Payouts[i]) })

	case IntentSupportEscalation:
		return renderEscalation(reply)

	case IntentSmalltalk:
		// Smalltalk replies carry their wording in text; message is only a
		// degraded fallback before the fixed sentence.
		text := reply.Text
		if text == "" {
			text = reply.Message
		}
		if text == "" {
			text = fallbackGeneric
		}
		return single(text)
	case IntentUnknown:
		return single(textOr(reply, fallbackUnknown))

	default:
		// Escape hatch: the backend sometimes answers with only an action
		// field instead of a declared intent. Recognized redirect actions
		// take the escalation path; everything else is the generic fallback.
		if reply.Action.IsRedirect() {
			return renderEscalation(reply)
		}
		return single(textOr(reply, fallbackGeneric))
	}
}

// =============================================================================
// BRANCH HELPERS
// =============================================================================

func single(text string) Result {
	return Result{Messages: []*transcript.Message{transcript.NewAssistantMessage(text)}}
}

func textOr(reply Reply, fallback string) string {
	if t := reply.FreeText(); t != "" {
		return t
	}
	return fallback
}

// emptySentence falls back to the generic sentence for safety; every list
// intent has an entry in emptySentences.
func emptySentence(intent Intent) string {
	if s, ok := emptySentences[intent]; ok {
		return s
	}
	return fallbackGeneric
}

// listHeader builds the header line for a list reply: the backend's free
// text verbatim when present, otherwise a synthesized label + count line.
func listHeader(reply Reply, count int) string {
	if t := reply.FreeText(); t != "" {
		return t
	}
	label := intentLabels[reply.Intent]
	if label == "" {
		label = string(reply.Intent)
	}
	noun := "results"
	if count == 1 {
		noun = "result"
	}
	return fmt.Sprintf("%s: %d %s", label, count, noun)
}

// budgetHeader is listHeader plus the applied-filters parenthetical, in the
// fixed order vegetarian, vegan, fast-preparation, location.
func budgetHeader(reply Reply) string {
	header := listHeader(reply, len(reply.Items))
	f := reply.AppliedFilters
	if f == nil {
		return header
	}

	var parts []string
	if f.Vegetarian {
		parts = append(parts, "vegetarian")
	}
	if f.Vegan {
		parts = append(parts, "vegan")
	}
	if f.FastPreparation {
		parts = append(parts, "quick preparation")
	}
	if f.PostalCode != "" {
		parts = append(parts, "near "+f.PostalCode)
	}
	if len(parts) == 0 {
		return header
	}
	return header + " (filters: " + strings.Join(parts, ", ") + ")"
}

// renderMenuList handles the menu/product-like intents: one message whose
// text is the header and whose attachments are the raw items, for card
// rendering by the widget.
func renderMenuList(reply Reply, items []MenuItem, header string) Result {
	if len(items) == 0 {
		return single(emptySentence(reply.Intent))
	}

	msg := transcript.NewAssistantMessage(header)
	msg.Attached = make([]transcript.Attachment, 0, len(items))
	for _, item := range items {
		msg.Attached = append(msg.Attached, toAttachment(item))
	}
	return Result{Messages: []*transcript.Message{msg}}
}

// renderTextList handles the remaining list intents: header plus one
// serialized multi-line block per item, as a single message with no
// attachments.
func renderTextList(reply Reply, count int, block func(i int) string) Result {
	if count == 0 {
		return single(emptySentence(reply.Intent))
	}

	var b strings.Builder
	b.WriteString(listHeader(reply, count))
	for i := 0; i < count; i++ {
		b.WriteString("\n\n")
		b.WriteString(block(i))
	}
	return single(b.String())
}

// renderEscalation handles support_escalation and the redirect actions.
// The first message is immediate; the numbered suggested-actions list, when
// present, is returned as a deferred message for the state machine to append
// after FollowUpDelay.
func renderEscalation(reply Reply) Result {
	text := reply.Message
	if text == "" {
		text = fallbackEscalation
	}
	if reply.HelpText != "" {
		text += "\n\n" + reply.HelpText
	}

	res := Result{Messages: []*transcript.Message{transcript.NewAssistantMessage(text)}}
	if len(reply.SuggestedActions) > 0 {
		var b strings.Builder
		b.WriteString("You could also try:")
		for i, action := range reply.SuggestedActions {
			b.WriteString("\n")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
			b.WriteString(action)
		}
		res.Deferred = transcript.NewAssistantMessage(b.String())
	}
	return res
}

// =============================================================================
// ATTACHMENT MAPPING
// =============================================================================

func toAttachment(item MenuItem) transcript.Attachment {
	tags := make([]string, 0, len(item.Tags)+2)
	if item.Vegetarian {
		tags = append(tags, "vegetarian")
	}
	if item.Vegan {
		tags = append(tags, "vegan")
	}
	tags = append(tags, item.Tags...)

	return transcript.Attachment{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Title:        item.Name,
		Subtitle:     item.Description,
		Price:        item.Price.Display(),
		PrepMinutes:  item.PrepMinutes,
		Tags:         tags,
	}
}

// =============================================================================
// TEXT BLOCKS
// =============================================================================
// Each block serializes one record with a fixed field order so identical
// replies always render identical text. Numeric fields go through
// Amount.Display, which yields "N/A" for absent or non-numeric values.

func orderBlock(n int, o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s — %s", n, stringOr(o.RestaurantName, "N/A"), OrderStatusLabel(o.Status))
	fmt.Fprintf(&b, "\n   Ordered: %s · Items: %d · Total: %s €", stringOr(o.CreatedAt, "N/A"), o.ItemsCount, o.TotalPrice.Display())
	return b.String()
}

func restaurantBlock(n int, r Restaurant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s (%s)", n, stringOr(r.Name, "N/A"), stringOr(r.CuisineType, "N/A"))
	fmt.Fprintf(&b, "\n   %s %s", stringOr(r.Address, "N/A"), r.PostalCode)
	fmt.Fprintf(&b, "\n   Rating: %s · Delivery fee: %s € · Minimum order: %s €",
		r.Rating.Display(), r.DeliveryFee.Display(), r.MinOrder.Display())
	if r.OpeningHours != "" {
		fmt.Fprintf(&b, "\n   Open: %s", r.OpeningHours)
	}
	return b.String()
}

func faqBlock(n int, f FAQEntry) string {
	return fmt.Sprintf("%d. %s\n   %s", n, stringOr(f.Question, "N/A"), stringOr(f.Answer, "N/A"))
}

func reviewBlock(n int, r Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s — %s/5", n, stringOr(r.RestaurantName, "N/A"), r.Rating.Display())
	if r.Comment != "" {
		fmt.Fprintf(&b, "\n   \"%s\"", r.Comment)
	}
	fmt.Fprintf(&b, "\n   %s, %s", stringOr(r.Author, "Anonymous"), stringOr(r.CreatedAt, "N/A"))
	return b.String()
}

func loyaltyBlock(n int, l LoyaltyEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s — %d points", n, stringOr(l.RestaurantName, "N/A"), l.Points)
	if l.NextRewardAt > 0 {
		fmt.Fprintf(&b, "\n   Next reward at %d points", l.NextRewardAt)
	}
	return b.String()
}

func paymentBlock(n int, p Payment) string {
	return fmt.Sprintf("%d. %s — %s €\n   %s · %s · %s",
		n, stringOr(p.OrderRef, "N/A"), p.Amount.Display(),
		stringOr(p.Method, "N/A"), stringOr(p.Status, "N/A"), stringOr(p.CreatedAt, "N/A"))
}

func driverBlock(n int, d Driver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s — %s", n, stringOr(d.Name, "N/A"), stringOr(d.Status, "N/A"))
	fmt.Fprintf(&b, "\n   Vehicle: %s · Phone: %s", stringOr(d.VehicleType, "N/A"), stringOr(d.Phone, "N/A"))
	if d.OrderRef != "" {
		fmt.Fprintf(&b, "\n   Delivering order %s", d.OrderRef)
	}
	return b.String()
}

func payoutBlock(n int, p Payout) string {
	return fmt.Sprintf("%d. %s — %s €\n   Status: %s · Paid: %s",
		n, stringOr(p.Period, "N/A"), p.Amount.Display(),
		stringOr(p.Status, "N/A"), stringOr(p.PaidAt, "N/A"))
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
