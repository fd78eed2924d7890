package mail

import (
	"bytes"
	"html/template"
	"time"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html lang="vi">
<body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2>Đặt lại mật khẩu</h2>
<p>Xin chào {{.Fullname}},</p>
<p>Mã xác nhận đặt lại mật khẩu của bạn là:</p>
<p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
<p>Mã có hiệu lực trong {{.Minutes}} phút, đến {{.ExpiresAt}}.</p>
<p>Nếu bạn không yêu cầu đặt lại mật khẩu, hãy bỏ qua email này.</p>
</body>
</html>
`))

type resetData struct {
	Fullname  string
	Code      string
	Minutes   int
	ExpiresAt string
}

func renderReset(fullname, code string, now, expiresAt time.Time, loc *time.Location) (string, error) {
	if fullname == "" {
		fullname = "bạn"
	}
	if loc == nil {
		loc = time.UTC
	}
	minutes := int(expiresAt.Sub(now).Round(time.Minute) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, resetData{
		Fullname:  fullname,
		Code:      code,
		Minutes:   minutes,
		ExpiresAt: expiresAt.In(loc).Format("15:04 02/01/2006"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
