package models

import (
	"time"
)

// Product is a shop item shown on the storefront pages.
type Product struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	Description   string    `gorm:"type:text;column:description" json:"description"`
	Category      string    `gorm:"column:category" json:"category"`
	Price         float64   `gorm:"column:price;not null" json:"price"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	ImageURL      string    `gorm:"column:image_url" json:"image_url"`
	Active        bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedBy     string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type Order struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;index" json:"user_id"`
	OrderNumber string    `gorm:"column:order_number;not null;unique" json:"order_number"`
	Status      string    `gorm:"column:status;not null;default:'pending'" json:"status"`
	TotalAmount float64   `gorm:"column:total_amount;not null" json:"total_amount"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	OrderID   string    `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID *string   `gorm:"column:product_id" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Price     float64   `gorm:"column:price;not null" json:"price"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type CartItem struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductID string    `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart"
}

type Billing struct {
	ID            string     `gorm:"primaryKey;column:id" json:"id"`
	PatientID     string     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AppointmentID *string    `gorm:"column:appointment_id" json:"appointment_id"`
	InvoiceNumber string     `gorm:"column:invoice_number;not null;unique" json:"invoice_number"`
	Amount        float64    `gorm:"column:amount;not null" json:"amount"`
	Description   string     `gorm:"type:text;column:description" json:"description"`
	PaymentStatus string     `gorm:"column:payment_status;not null;default:'pending'" json:"payment_status"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Billing) TableName() string {
	return "billing"
}

type ChatMessage struct {
	ID         string    `gorm:"primaryKey;column:id" json:"id"`
	SenderID   string    `gorm:"column:sender_id;not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"column:receiver_id;not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text;column:message;not null" json:"message"`
	Read       bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type AuditLog struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    *string   `gorm:"column:user_id;index" json:"user_id"`
	Action    string    `gorm:"column:action;not null" json:"action"`
	Entity    string    `gorm:"column:table_name" json:"table_name"`
	RecordID  *string   `gorm:"column:record_id" json:"record_id"`
	OldData   string    `gorm:"type:text;column:old_data" json:"old_data"`
	NewData   string    `gorm:"type:text;column:new_data" json:"new_data"`
	IPAddress string    `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
