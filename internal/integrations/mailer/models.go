package mailer

// Message письмо клиенту
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string // текстовое тело
}

// Config настройки отправителя
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	Host      string // пусто = https://api.sendgrid.com
}
