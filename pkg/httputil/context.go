package httputil

// ProfileIDKey is the gin context key holding the caller's profile ID.
const ProfileIDKey = "profile_id"
