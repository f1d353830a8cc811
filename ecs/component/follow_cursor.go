package component

// FollowCursor pins the entity's Transform to the mouse cursor.
type FollowCursor struct {
	OffsetX float64
	OffsetY float64
}

var FollowCursorComponent = NewComponent[FollowCursor]()
