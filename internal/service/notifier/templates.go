package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mailer"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const (
	czechDateTime = "2. 1. 2006 15:04"
	czechTime     = "15:04"
)

var subjects = map[Kind]string{
	KindCreated:  "Potvrzení rezervace",
	KindCanceled: "Stornování rezervace",
	KindUpdated:  "Úprava rezervace",
}

var leads = map[Kind]string{
	KindCreated:  "proběhla úspěšně.",
	KindCanceled: "byla stornována.",
	KindUpdated:  "byla upravena následovně:",
}

// buildMessage письмо клиенту о записи
func buildMessage(kind Kind, a *domain.Appointment, loc *time.Location, salonName string) mailer.Message {
	if loc == nil {
		loc = time.UTC
	}

	extras := "-"
	if len(a.ExtraProcedures) > 0 {
		names := make([]string, 0, len(a.ExtraProcedures))
		for _, e := range a.ExtraProcedures {
			names = append(names, e.Name)
		}
		extras = strings.Join(names, ", ")
	}

	phone := "-"
	if p := strings.TrimPrefix(ptr.Value(a.Phone), "+"); p != "" {
		phone = "+" + p
	}

	var b strings.Builder
	b.WriteString("Dobrý den,\n\n")
	fmt.Fprintf(&b, "Vaše rezervace na jméno %s %s\n", a.Lastname, leads[kind])
	fmt.Fprintf(&b, "Termín rezervace: %s - %s\n", a.Start.In(loc).Format(czechDateTime), a.End.In(loc).Format(czechTime))
	fmt.Fprintf(&b, "Studio: %s\n", a.ServiceCategory)
	fmt.Fprintf(&b, "Procedura: %s\n", a.ProcedureName)
	fmt.Fprintf(&b, "Doplňkové procedury: %s\n", extras)
	fmt.Fprintf(&b, "Váš telefon: %s\n", phone)
	fmt.Fprintf(&b, "Očekávaná cena: %.0f Kč\n", a.TotalPrice())
	b.WriteString("\n\nS pozdravem\n")
	b.WriteString(salonName)
	b.WriteString("\n")

	return mailer.Message{
		To:      ptr.Value(a.Email),
		ToName:  a.Lastname,
		Subject: subjects[kind],
		Body:    b.String(),
	}
}
