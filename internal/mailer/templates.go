package mailer

import "fmt"

// WelcomeMessage greets a newly registered user.
func WelcomeMessage(to, fullName string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to ViewTube",
		HTML: fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Welcome, %s!</h2>
<p>Your ViewTube account is ready. Upload your first video, follow channels you like, and join the conversation.</p>
<p>See you on the platform.</p>
</div>`, fullName),
	}
}

// OTPMessage carries a password change verification code. The code expires
// ten minutes after issue.
func OTPMessage(to, otp string) Message {
	return Message{
		To:      to,
		Subject: "Your ViewTube verification code",
		HTML: fmt.Sprintf(`<div style="font-family:sans-serif">
<p>Use this code to confirm your password change:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code expires in 10 minutes. If you did not request this, you can ignore this email.</p>
</div>`, otp),
	}
}

// PasswordChangedMessage confirms that a password change completed.
func PasswordChangedMessage(to, fullName string) Message {
	return Message{
		To:      to,
		Subject: "Your ViewTube password was changed",
		HTML: fmt.Sprintf(`<div style="font-family:sans-serif">
<p>Hi %s,</p>
<p>Your password was just changed. If this was you, no action is needed.</p>
<p>If you did not change your password, reset it immediately and contact support.</p>
</div>`, fullName),
	}
}
