package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `gorm:"not null" json:"address"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int        `gorm:"not null;check:stock >= 0" json:"stock"`
	Discount    *int       `gorm:"check:discount >= 0 AND discount <= 100" json:"discount,omitempty"`
	Photo       string     `json:"photo,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	StoreID     uint       `gorm:"not null;index" json:"store_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	BuyerID     uint        `gorm:"not null;index" json:"buyer_id"`
	StoreID     uint        `gorm:"not null;index" json:"store_id"`
	OrderDate   time.Time   `gorm:"not null" json:"order_date"`
	TotalPrice  float64     `gorm:"not null" json:"total_price"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// BeforeCreate defaults the order date to creation time.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
	Subtotal  float64 `gorm:"not null" json:"subtotal"`
}

// Migrate runs AutoMigrate for all models owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Store{}, &Product{}, &Order{}, &OrderItem{})
}
