package shared

const (
	UserID    = "user_id"
	SessionID = "session_id"

	RoleStudent = "student"
	RoleAdmin   = "admin"

	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
	LessonStatusArchived  = "archived"

	PromoStatusPending   = "pending"
	PromoStatusActivated = "activated"
	PromoStatusExpired   = "expired"

	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"

	VideoTypeYoutube = "youtube"
	VideoTypeVimeo   = "vimeo"
	VideoTypeBunny   = "bunny"
	VideoTypeDirect  = "direct"
)
