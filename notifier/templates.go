package notifier

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	TemplatePaymentConfirmed     = "payment_confirmed"
	TemplateSubscriptionOverdue  = "subscription_overdue"
	TemplateSubscriptionCanceled = "subscription_canceled"
)

const layout = `
<div style="background-color: #141414; width: 100%; min-height: 300px; padding: 30px; box-sizing:border-box">
	<table style="background-color: #ffffff; width: 100%; min-height: 300px;">
		<tbody>
			<tr>
				<td><h1 style="text-align:center">{{template "title" .}}</h1></td>
			</tr>
			<tr>
				<td style="text-align:center; padding-bottom: 30px;">{{template "content" .}}</td>
			</tr>
		</tbody>
	</table>
</div>`

var bodies = map[string]string{
	TemplatePaymentConfirmed: `
{{define "title"}}Pagamento confirmado{{end}}
{{define "content"}}
<p>Recebemos o seu pagamento de R$ {{.Value}}.</p>
<p>Sua assinatura está ativa até <strong>{{.PeriodEnd}}</strong>.</p>
<p>Bom filme!</p>
{{end}}`,
	TemplateSubscriptionOverdue: `
{{define "title"}}Pagamento em atraso{{end}}
{{define "content"}}
<p>Não identificamos o pagamento da sua assinatura.</p>
{{if .InvoiceURL}}<p><a href="{{.InvoiceURL}}">Pagar agora</a></p>{{end}}
{{end}}`,
	TemplateSubscriptionCanceled: `
{{define "title"}}Assinatura cancelada{{end}}
{{define "content"}}
<p>Sua assinatura foi cancelada. Você pode assinar novamente a qualquer momento.</p>
{{end}}`,
}

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.Must(template.New(name).Parse(layout))
		out[name] = template.Must(t.Parse(body))
	}
	return out
}()

func render(name string, data map[string]interface{}) ([]byte, error) {
	t, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("notifier: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("notifier: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
