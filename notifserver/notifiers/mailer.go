// Copyright 2024 The Orbit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notifiers

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orbitsocial/orbit/setup/config"
)

// Mailer sends an assembled email.
type Mailer interface {
	Send(email *Email) error
}

// SMTPMailer is safe for concurrent use; sends are serialized over the
// single connection so MAIL, RCPT and DATA commands do not interleave.
type SMTPMailer struct {
	conf      config.EmailOptions
	cl        *smtp.Client
	sendMutex sync.Mutex
}

func NewSMTPMailer(c *config.EmailOptions) (*SMTPMailer, error) {
	if err := validateLine(c.From); err != nil {
		return nil, err
	}
	cl, err := smtp.Dial(c.Host)
	if err != nil {
		return nil, err
	}
	if err = cl.Hello("localhost"); err != nil {
		return nil, err
	}
	if ok, _ := cl.Extension("STARTTLS"); ok {
		config := &tls.Config{ServerName: strings.Split(c.Host, ":")[0]}
		if err = cl.StartTLS(config); err != nil {
			return nil, err
		}
	}
	if c.User != "" {
		auth := smtp.PlainAuth("", c.User, c.Password, strings.Split(c.Host, ":")[0])
		if err = cl.Auth(auth); err != nil {
			return nil, err
		}
	}
	return &SMTPMailer{conf: *c, cl: cl}, nil
}

func (m *SMTPMailer) Send(email *Email) error {
	for _, addr := range email.To {
		if err := validateLine(addr); err != nil {
			return err
		}
	}
	body, err := m.assemble(email)
	if err != nil {
		return err
	}
	m.sendMutex.Lock()
	defer m.sendMutex.Unlock()
	if err := m.cl.Mail(m.conf.From); err != nil {
		return err
	}
	for _, addr := range append(append(append([]string{}, email.To...), email.Cc...), email.Bcc...) {
		if err := m.cl.Rcpt(addr); err != nil {
			return err
		}
	}
	w, err := m.cl.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

func (m *SMTPMailer) assemble(email *Email) ([]byte, error) {
	b := bytes.Buffer{}
	boundary := uuid.NewString()
	fmt.Fprintf(&b, "From: %s\r\n", m.conf.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	if len(email.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(email.Cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), strings.Split(m.conf.Host, ":")[0])
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, email.TextBody)
	if email.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, email.HTMLBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.Bytes(), nil
}

// validateLine checks to see if a line has CR or LF as per RFC 5321.
func validateLine(line string) error {
	if strings.ContainsAny(line, "\n\r") {
		return errors.New("smtp: a line must not contain CR or LF")
	}
	return nil
}
