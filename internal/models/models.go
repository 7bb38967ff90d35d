package models

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Auth is the credential record used at login. It is created once at
// registration and never updated afterwards.
type Auth struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	UserID       uint   `gorm:"index;not null"           json:"user_id"`
	User         User   `gorm:"foreignKey:UserID"        json:"user"`
}

type User struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Address string `json:"address"`
	Age     uint   `json:"age"`
	Role    string `gorm:"not null"                 json:"role"`
	ShopID  *uint  `gorm:"index"                    json:"shopId"`
}

type Shop struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name      string   `gorm:"not null"                  json:"name"`
	Price     float64  `gorm:"not null"                  json:"price"`
	Stock     uint     `json:"stock"`
	ImageURLs []string `gorm:"serializer:json"           json:"imageUrl"`
	UserID    uint     `gorm:"index"                     json:"userId"`
	ShopID    uint     `gorm:"index"                     json:"shopId"`
}
