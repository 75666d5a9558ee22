package util

import (
	"fmt"
	"log"
	"os"

	"github.com/resend/resend-go/v2"
)

// SendRenderCompleteEmail notifies the requester that their video is ready.
// Notification is best effort; missing config is not an error.
func SendRenderCompleteEmail(to, videoURL string, metadata VideoMetadata) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" || to == "" {
		return nil
	}

	from := os.Getenv("RESEND_FROM_EMAIL")
	if from == "" {
		from = "VisionForge <noreply@visionforge.app>"
	}

	client := resend.NewClient(apiKey)

	html := fmt.Sprintf(`<p>Your video is ready!</p>
<p><a href="%s">Download your video</a></p>
<p>%d scenes &middot; %.0f seconds &middot; %s &middot; %s</p>`,
		videoURL, metadata.SceneCount, metadata.Duration, metadata.Resolution, metadata.Format)

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: "Your video is ready",
		Html:    html,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		log.Printf("[ERROR] Error sending render complete email: %v", err)
		return err
	}

	log.Printf("[INFO] Sent render complete email %s to %s", sent.Id, to)
	return nil
}
