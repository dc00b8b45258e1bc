package service

// Statement templates issued against the profile store. The store contract
// is positional: the decode step below depends on the SELECT column order.
const (
	// verified is selected for parity with the table layout but never
	// decoded; the read path does not populate it yet.
	stmtSelectUser = `SELECT username, avatar, bio, deleted, flags, email, birthdate, verified
		FROM users WHERE vanity = $1`

	// Bot rows carry no PII columns, so none are selected.
	stmtSelectBot = `SELECT username, avatar, bio, deleted, flags
		FROM bots WHERE id = $1`

	// Patch baseline. Always read fresh from the store, never from cache.
	stmtSelectBaseline = `SELECT username, avatar, bio, email, password
		FROM users WHERE vanity = $1`

	stmtUpdatePassword = `UPDATE users SET password = $1 WHERE vanity = $2`

	// Suspension only flips the flag; the row itself is never removed.
	stmtSuspend = `UPDATE users SET deleted = TRUE WHERE vanity = $1`

	// Combined patch write. Birthdate keeps its current value when no new
	// ciphertext was adopted; avatar and phone have no patch path yet and
	// are written as supplied (nil).
	stmtUpdateProfile = `UPDATE users SET
		username = $1,
		avatar = $2,
		bio = $3,
		birthdate = COALESCE($4, birthdate),
		phone = $5,
		email = $6
		WHERE vanity = $7`
)
