package wsrouter

import "context"

type ctxKey string

const messageTypeKey ctxKey = "message_type"

func GetMessageTypeFromCtx(ctx context.Context) string {
	messageType, ok := ctx.Value(messageTypeKey).(string)
	if !ok {
		return ""
	}

	return messageType
}
