package storage

import "time"

// User is a bot user record, created on first interaction.
type User struct {
	UserID       int64     `db:"user_id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	IsBlocked    bool      `db:"is_blocked"`
	FirstSeen    time.Time `db:"first_seen"`
	LastActivity time.Time `db:"last_activity"`
}

// Operation distinguishes the two transfer flows a client can start.
type Operation string

const (
	// OperationSend means the client pays out.
	OperationSend Operation = "send"
	// OperationReceive means the client receives a payment.
	OperationReceive Operation = "receive"
)

// ClientApplication is a submitted payment request with its nine positional
// form fields and, once forwarded, the admin-message linkage used for
// reply reconciliation.
type ClientApplication struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	Direction      string    `db:"direction"`
	OperationType  Operation `db:"operation_type"`
	CompanyName    string    `db:"company_name"`
	TaxID          string    `db:"tax_id"`
	Bank           string    `db:"bank"`
	VATRate        int       `db:"vat_rate"`
	Category       string    `db:"category"`
	PaymentPurpose string    `db:"payment_purpose"`
	Amount         int64     `db:"amount"`
	EquipmentType  string    `db:"equipment_type"`
	Description    string    `db:"description"`
	AdminChatID    int64     `db:"admin_chat_id"`
	AdminMessageID int       `db:"admin_message_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// ReadyOffer is an administrator-curated commercial proposal, reusable
// across applications within one direction.
type ReadyOffer struct {
	ID             int64     `db:"id"`
	Direction      string    `db:"direction"`
	CompanyName    string    `db:"company_name"`
	TaxID          string    `db:"tax_id"`
	Bank           string    `db:"bank"`
	PaymentPurpose string    `db:"payment_purpose"`
	MinAmount      int64     `db:"min_amount"`
	MaxAmount      int64     `db:"max_amount"`
	Commission     float64   `db:"commission"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// FeedbackKind is the client's verdict on an offer message.
type FeedbackKind string

const (
	// FeedbackAccept marks an accepted offer.
	FeedbackAccept FeedbackKind = "yes"
	// FeedbackReject marks a rejected offer.
	FeedbackReject FeedbackKind = "no"
)

// Feedback records a client's reaction to one outbound offer message.
// OfferRef is the composite admin-chat/message/offer reference decoded
// from the feedback callback payload.
type Feedback struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	OfferRef  string       `db:"offer_ref"`
	Kind      FeedbackKind `db:"feedback_type"`
	Direction string       `db:"direction"`
	CreatedAt time.Time    `db:"created_at"`
}

// OwnerNotification is a denormalized snapshot of a feedback event kept
// for the privileged owner chat; pruned by age.
type OwnerNotification struct {
	ID            int64        `db:"id"`
	Kind          string       `db:"kind"`
	UserID        int64        `db:"user_id"`
	ApplicationID *int64       `db:"application_id"`
	OfferID       string       `db:"offer_id"`
	Direction     string       `db:"direction"`
	CompanyName   string       `db:"company_name"`
	AdminChatID   int64        `db:"admin_chat_id"`
	FeedbackType  FeedbackKind `db:"feedback_type"`
	Message       string       `db:"message"`
	CreatedAt     time.Time    `db:"created_at"`
}

// DBStats aggregates table sizes for the owner report.
type DBStats struct {
	Applications  int64
	FeedbackYes   int64
	FeedbackNo    int64
	Notifications int64
	Users         int64
	SizeBytes     int64
}

// DailyStats summarizes the current day's activity.
type DailyStats struct {
	Date         string
	Applications int64
	FeedbackYes  int64
	FeedbackNo   int64
	ByDirection  map[string]int64
}

// PruneResult reports how many rows the maintenance pass removed.
type PruneResult struct {
	NotificationsDeleted int64
	RejectedDeleted      int64
}
