package registry

// Claims records which control ids were already emitted during one run.
type Claims struct {
	owners map[int]string
}

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{owners: make(map[int]string)}
}

// Claim marks id as emitted for key.
//
// Claiming an id a second time for the same key returns ErrKeyReused: two
// elements resolved to one stable key. Claiming it for a different key returns
// a *DuplicateIDError.
func (c *Claims) Claim(id int, key string) error {
	owner, taken := c.owners[id]
	if !taken {
		c.owners[id] = key
		return nil
	}
	if owner == key {
		return ErrKeyReused
	}
	return &DuplicateIDError{ID: id, Key: key, Owner: owner}
}

// Owner returns the key that claimed id.
func (c *Claims) Owner(id int) (string, bool) {
	k, ok := c.owners[id]
	return k, ok
}

// Len is the number of claimed ids.
func (c *Claims) Len() int { return len(c.owners) }
