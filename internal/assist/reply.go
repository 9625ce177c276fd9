// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

// =============================================================================
// INTENT TYPE
// =============================================================================

// Intent is the discriminant tag on a backend reply indicating which
// conversational topic it answers. The constant set below is closed; Render
// dispatches over it exhaustively so a new intent shows up as a compile-time
// visible gap rather than a silently hit default branch.
type Intent string

const (
	IntentBudgetMenuSearch  Intent = "budget_menu_search"
	IntentOrderStatus       Intent = "order_status"
	IntentRestaurantInfo    Intent = "restaurant_info"
	IntentMenuDetails       Intent = "menu_details"
	IntentDrinksMenu        Intent = "drinks_menu"
	IntentProductSearch     Intent = "product_search"
	IntentFAQ               Intent = "faq"
	IntentReviewInfo        Intent = "review_info"
	IntentLoyaltyStatus     Intent = "loyalty_status"
	IntentPaymentHistory    Intent = "payment_history"
	IntentDriverInfo        Intent = "driver_info"
	IntentPayoutInfo        Intent = "payout_info"
	IntentSupportEscalation Intent = "support_escalation"
	IntentSmalltalk         Intent = "smalltalk"
	IntentUnknown           Intent = "unknown"
)

// Action is the untagged fallback variant the backend sometimes sends
// instead of (or alongside) an intent. Only the two redirect actions are
// recognized; anything else falls through to the generic fallback.
type Action string

const (
	ActionRedirectToReport Action = "redirect_to_report"
	ActionAIWithRedirect   Action = "ai_with_redirect"
)

// IsRedirect returns true for the recognized redirect actions.
func (a Action) IsRedirect() bool {
	return a == ActionRedirectToReport || a == ActionAIWithRedirect
}

// =============================================================================
// REPLY UNION
// =============================================================================

// Reply is one structured backend reply: a tagged union keyed by Intent,
// where each variant carries a different optional collection plus optional
// free text and suggested follow-up actions. Every field is optional on the
// wire; the renderer treats a missing collection exactly like an empty one.
type Reply struct {
	Intent Intent `json:"intent,omitempty"`
	Action Action `json:"action,omitempty"`

	// Free text. Some intents populate message, others text; the renderer
	// prefers whichever is present.
	Message string `json:"message,omitempty"`
	Text    string `json:"text,omitempty"`

	// HelpText carries redirect-option wording on the escalation path.
	HelpText string `json:"help_text,omitempty"`

	// SuggestedActions are short follow-up strings, rendered as a delayed
	// numbered-list message on the escalation path.
	SuggestedActions []string `json:"suggested_actions,omitempty"`

	// AppliedFilters summarizes the filters a budget menu search honored.
	AppliedFilters *AppliedFilters `json:"applied_filters,omitempty"`

	// Per-intent collections.
	Items       []MenuItem     `json:"items,omitempty"`        // budget_menu_search
	Orders      []Order        `json:"orders,omitempty"`       // order_status
	Restaurants []Restaurant   `json:"restaurants,omitempty"`  // restaurant_info
	MenuItems   []MenuItem     `json:"menu_items,omitempty"`   // menu_details
	Drinks      []MenuItem     `json:"drinks,omitempty"`       // drinks_menu
	Products    []MenuItem     `json:"products,omitempty"`     // product_search
	FAQs        []FAQEntry     `json:"faqs,omitempty"`         // faq
	Reviews     []Review       `json:"reviews,omitempty"`      // review_info
	Loyalty     []LoyaltyEntry `json:"loyalty,omitempty"`      // loyalty_status
	Payments    []Payment      `json:"payments,omitempty"`     // payment_history
	Drivers     []Driver       `json:"drivers,omitempty"`      // driver_info
	Payouts     []Payout       `json:"payouts,omitempty"`      // payout_info
}

// FreeText returns the reply's free text, preferring message over text.
func (r Reply) FreeText() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Text
}

// AppliedFilters describes which budget-search filters were applied.
type AppliedFilters struct {
	Vegetarian      bool   `json:"vegetarian,omitempty"`
	Vegan           bool   `json:"vegan,omitempty"`
	FastPreparation bool   `json:"fast_preparation,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
}

// =============================================================================
// COLLECTION RECORDS
// =============================================================================

// MenuItem is a menu, drink, or product entry. Menu-like replies attach
// these raw to the message so the widget can render interactive cards.
type MenuItem struct {
	ID           string   `json:"id,omitempty"`
	RestaurantID string   `json:"restaurant_id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        Amount   `json:"price,omitempty"`
	DeliveryFee  Amount   `json:"delivery_fee,omitempty"`
	PrepMinutes  int      `json:"preparation_time,omitempty"`
	Vegetarian   bool     `json:"vegetarian,omitempty"`
	Vegan        bool     `json:"vegan,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Order is one order-status record.
type Order struct {
	RestaurantName string `json:"restaurant_name,omitempty"`
	Status         string `json:"status,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	TotalPrice     Amount `json:"total_price,omitempty"`
	ItemsCount     int    `json:"items_count,omitempty"`
}

// Restaurant is one restaurant-info record.
type Restaurant struct {
	Name         string `json:"name,omitempty"`
	CuisineType  string `json:"cuisine_type,omitempty"`
	Address      string `json:"address,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Rating       Amount `json:"rating,omitempty"`
	DeliveryFee  Amount `json:"delivery_fee,omitempty"`
	MinOrder     Amount `json:"min_order,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

// FAQEntry is one frequently-asked-question record.
type FAQEntry struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Review is one customer review record.
type Review struct {
	RestaurantName string `json:"restaurant_name,omitempty"`
	Rating         Amount `json:"rating,omitempty"`
	Comment        string `json:"comment,omitempty"`
	Author         string `json:"author,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// LoyaltyEntry is one loyalty-program status record.
type LoyaltyEntry struct {
	RestaurantName string `json:"restaurant_name,omitempty"`
	Points         int    `json:"points,omitempty"`
	NextRewardAt   int    `json:"next_reward_at,omitempty"`
}

// Payment is one payment-history record.
type Payment struct {
	OrderRef  string `json:"order_ref,omitempty"`
	Amount    Amount `json:"amount,omitempty"`
	Method    string `json:"method,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Driver is one driver-info record.
type Driver struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	Status      string `json:"status,omitempty"`
	OrderRef    string `json:"order_ref,omitempty"`
}

// Payout is one restaurant payout record.
type Payout struct {
	Period string `json:"period,omitempty"`
	Amount Amount `json:"amount,omitempty"`
	Status string `json:"status,omitempty"`
	PaidAt string `json:"paid_at,omitempty"`
}
