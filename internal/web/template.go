package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/extruder-ctl/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Extruder Panel</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.armed { color: green; font-weight: bold; }
.locked { color: orange; font-weight: bold; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
pre.lcd { background: #1d2a1d; color: #9f9; display: inline-block; padding: 8px 12px; border-radius: 4px; font-size: 1.1em; }
</style>
</head>
<body>
<h1>Extruder Panel</h1>

<pre class="lcd">{{index .Display 0}}
{{index .Display 1}}</pre>

<h2>State</h2>
<table>
<tr><th>Interlock</th><td class="{{if eq .StateStr "ARMED"}}armed{{else}}locked{{end}}">{{.StateStr}}</td></tr>
<tr><th>Target speed</th><td>{{printf "%.2f" .TargetSpeed}}</td></tr>
<tr><th>Motor duty</th><td>{{.DriveDuty}} / 255</td></tr>
<tr><th>Status LED</th><td>{{.StatusBrightness}} / 255</td></tr>
<tr><th>Heater</th><td class="{{if .HeaterOn}}on{{else}}off{{end}}">{{if .HeaterOn}}ON{{else}}OFF{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}}</td></tr>
<tr><th>Tick delay</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Fade delay</th><td>{{.Config.FadeMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Target temp</th><td>{{printf "%.1f" .Config.TargetTempC}}&deg;C</td></tr>
<tr><th>Room temp</th><td>{{printf "%.1f" .Config.RoomTempC}}&deg;C</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// The template needs plain fields rather than methods.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		StateStr string
		Display  [2]string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		StateStr: string(snap.State),
		Display:  [2]string{snap.Line1, snap.Line2},
	}
	indexTmpl.Execute(w, data)
}
