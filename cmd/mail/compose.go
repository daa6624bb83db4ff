package main

import (
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var errUnsupportedMailType = errors.New("不支持的邮件类型")

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeEventCreated: {
		file:    "event_created_email.html",
		subject: "ECNC 约时间 - 活动已创建",
	},
	domain.MailTypeParticipantResponded: {
		file:    "participant_responded_email.html",
		subject: "ECNC 约时间 - 有新的提交",
	},
}

// composeMail 根据邮件类型渲染模板，返回的错误都不值得重试
func composeMail(templateDir string, from string, mailMessage *domain.MailMessage) (*mail.Msg, error) {
	mt, ok := mailTemplates[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedMailType, mailMessage.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	tmpl, err := template.ParseFiles(filepath.Join(templateDir, mt.file))
	if err != nil {
		return nil, fmt.Errorf("无法解析邮件模板: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(mt.subject)

	return m, nil
}
