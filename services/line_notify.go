package services

import (
	"fmt"
	"log"
	"os"

	"github.com/line/line-bot-sdk-go/linebot"
)

// LineMessagingService pushes outbound messages to location LINE groups
type LineMessagingService struct {
	Bot *linebot.Client
}

// NewLineMessagingService creates a new instance; the bot stays nil when the
// channel credentials are absent and sends fail with an explicit error.
func NewLineMessagingService() *LineMessagingService {
	channelSecret := os.Getenv("LINE_CHANNEL_SECRET")
	channelToken := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	if channelSecret == "" || channelToken == "" {
		log.Println("LINE Messaging API disabled: missing LINE_CHANNEL_SECRET or LINE_CHANNEL_ACCESS_TOKEN")
		return &LineMessagingService{Bot: nil}
	}

	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		log.Fatalf("Cannot create LINE bot client: %v", err)
	}

	return &LineMessagingService{Bot: bot}
}

// SendToGroup pushes a text message to a LINE group
func (s *LineMessagingService) SendToGroup(groupID string, message string) error {
	if s.Bot == nil {
		return fmt.Errorf("LINE Bot client is not initialized")
	}
	if groupID == "" {
		return fmt.Errorf("location has no LINE group configured")
	}

	_, err := s.Bot.PushMessage(groupID, linebot.NewTextMessage(message)).Do()
	if err != nil {
		return fmt.Errorf("LINE Messaging API failed: %v", err)
	}
	return nil
}
