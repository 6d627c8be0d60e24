package schema

// UserIdentityTable represents the 'users.identity' table
type UserIdentityTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Phone        string
	Address      string
	AvatarURL    string
	IsBlocked    string
	IsConfirmed  string
	CreatedAt    string
	UpdatedAt    string
}

// UserIdentity is the schema definition for users.identity
var UserIdentity = UserIdentityTable{
	Table:        "users.identity",
	ID:           "id",
	Email:        "email",
	Name:         "name",
	PasswordHash: "passwordhash",
	Role:         "role",
	Phone:        "phone",
	Address:      "address",
	AvatarURL:    "avatarurl",
	IsBlocked:    "isblocked",
	IsConfirmed:  "isconfirmed",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserIdentityTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Name, t.PasswordHash, t.Role, t.Phone, t.Address, t.AvatarURL,
		t.IsBlocked, t.IsConfirmed, t.CreatedAt, t.UpdatedAt,
	}
}
