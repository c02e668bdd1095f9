package redis

import (
	"strconv"
	"time"
)

// Key layout and expiry policy. The suffix conventions below are
// load-bearing: existing stored data uses them, so they must not change.
//
//	<id>.tempSession              hash   {referer}                TTL 5m
//	<id>.session                  hash   {username,userId,...}    TTL 7d
//	<userId>.user                 hash   {username,userId,...}    permanent
//	users                         zset   member=username score=userId
//	exhibits                      zset   member=exhibit key score=userId
//	<username>.<exhibit>.exhibit  member format inside the exhibits zset
//	elmLangPackages.cache         list   package names            TTL 10m
//
// TTLs are policy constants; they live here and nowhere else.
const (
	tempSessionTTL  = 300 * time.Second
	sessionTTL      = 604800 * time.Second // 7 days
	packageCacheTTL = 600 * time.Second
)

// Global table names for the sorted-set indexes.
const (
	usersTable    = "users"
	exhibitsTable = "exhibits"
)

// Hash field names shared by the session and user records.
const (
	fieldUsername    = "username"
	fieldUserID      = "userId"
	fieldAvatarURL   = "avatarUrl"
	fieldSessionID   = "sessionId"
	fieldAccessToken = "accessToken"
	fieldReferer     = "referer"
)

func tempSessionKey(sessionID string) string {
	return sessionID + ".tempSession"
}

func sessionKey(sessionID string) string {
	return sessionID + ".session"
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10) + ".user"
}

func exhibitKey(username, exhibitName string) string {
	return username + "." + exhibitName + ".exhibit"
}

func packageCacheKey() string {
	return "elmLangPackages.cache"
}
