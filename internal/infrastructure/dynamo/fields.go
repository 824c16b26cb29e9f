package dynamo

// DynamoDB attribute names used in key and update expressions.
const (
	fieldNotificationID = "notification_id"
	fieldTitle          = "title"
	fieldMessage        = "message"
	fieldDeliverAt      = "deliver_at"
	fieldAudience       = "audience"
	fieldUpdatedAt      = "updated_at"
	fieldSeq            = "seq"
)

// counterID is the reserved item holding the notification id sequence.
// Real notifications start at 1.
const counterID int64 = 0
