package email

// BaseTemplate is the base layout for all emails
const BaseTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif;">
<div style="max-width: 600px; margin: 0 auto; padding: 24px;">
<h1>VisitSwap</h1>
{{.Content}}
</div>
</body>
</html>`

// VerificationTemplate asks a new member to confirm their address
const VerificationTemplate = `<p>Hi {{.UserName}},</p>
<p>Confirm your email to start exchanging visits:</p>
<p><a href="{{.VerifyURL}}">Confirm email</a></p>`

// PasswordResetTemplate carries the single-use reset link
const PasswordResetTemplate = `<p>Hi {{.UserName}},</p>
<p>Use the link below to choose a new password. It expires in {{.ExpiresIn}}.</p>
<p><a href="{{.ResetURL}}">Reset password</a></p>`
