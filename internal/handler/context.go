package handler

type ContextKey string

var (
	EventCtx ContextKey = "event"
)
