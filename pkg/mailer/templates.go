package mailer

import "fmt"

// SponsorConfirmation builds the acknowledgement sent to a prospective
// sponsor after they submit an interest form.
func SponsorConfirmation(sponsorName, studentName string) Message {
	body := fmt.Sprintf(`
	<html>
	<body>
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Thank You for Your Interest!</h2>
			<p>Dear %s,</p>
			<p>We have received your interest in sponsoring <strong>%s</strong>.
			Our team will review your submission and reach out to you shortly with
			the next steps.</p>
			<p>Your generosity changes a child's life.</p>
			<p>With gratitude,<br>The Anointed Vessels Team</p>
		</div>
	</body>
	</html>`, sponsorName, studentName)

	return Message{
		Subject: fmt.Sprintf("Sponsorship Interest Received - %s", studentName),
		HTML:    body,
	}
}

// AdminNotification builds the alert sent to the site administrator when a
// new sponsorship interest arrives.
func AdminNotification(sponsorName, sponsorEmail, sponsorPhone, studentName, studentIDNumber, message string) Message {
	if message == "" {
		message = "(none)"
	}
	body := fmt.Sprintf(`
	<html>
	<body>
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">New Sponsorship Interest</h2>
			<p>A new sponsorship interest has been submitted.</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;"><strong>Student</strong></td><td>%s (ID %s)</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><strong>Sponsor</strong></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><strong>Email</strong></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><strong>Phone</strong></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><strong>Message</strong></td><td>%s</td></tr>
			</table>
			<p>Log in to the dashboard to follow up.</p>
		</div>
	</body>
	</html>`, studentName, studentIDNumber, sponsorName, sponsorEmail, sponsorPhone, message)

	return Message{
		Subject: fmt.Sprintf("New Sponsorship Interest for %s", studentName),
		HTML:    body,
	}
}
