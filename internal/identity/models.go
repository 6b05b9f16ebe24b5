package identity

import "time"

// Identity is the stored user record the gateway resolves credentials against.
// It is keyed uniquely by Subject (the federated provider's sub claim) and by
// Address (the user's externally-owned EVM address). The gateway only reads
// identities; creation happens once, on the creation route.
type Identity struct {
	ID        int64     `json:"id"`
	Address   string    `json:"evm_address"`
	Subject   string    `json:"sub"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressLength is the canonical EVM address length: "0x" plus 40 hex digits.
const AddressLength = 42
