package web

import "net/http"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>autotheme</title>
    <style>
        body { font-family: sans-serif; max-width: 640px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        button { background: #007bff; color: white; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; margin-right: 6px; }
        button:hover { background: #0056b3; }
        input { padding: 8px; margin: 5px; width: 320px; }
        input[type=checkbox], input[type=number] { width: auto; }
        label { display: inline-block; width: 190px; }
    </style>
</head>
<body>
    <h1>autotheme</h1>
    <div class="info" id="status">Loading...</div>
    <div><label>Sunrise (HH:MM:SS):</label><input id="sunrise"></div>
    <div><label>Sunset (HH:MM:SS):</label><input id="sunset"></div>
    <div><label>Check interval (minutes):</label><input type="number" id="checkIntervalMinutes" min="1"></div>
    <div><label>Day theme file:</label><input id="dayThemePath"></div>
    <div><label>Night theme file:</label><input id="nightThemePath"></div>
    <div><label>Day wallpaper override:</label><input id="dayWallpaperOverride"></div>
    <div><label>Night wallpaper override:</label><input id="nightWallpaperOverride"></div>
    <div><label>Automatic switching:</label><input type="checkbox" id="automatic" onchange="setAuto(this.checked)"></div>
    <div style="margin-top: 20px;">
        <button onclick="save()">Save</button>
        <button onclick="post('/api/toggle')">Toggle theme now</button>
        <button onclick="post('/api/apply')">Re-apply schedule</button>
    </div>
    <script>
        const fields = ['sunrise', 'sunset', 'dayThemePath', 'nightThemePath', 'dayWallpaperOverride', 'nightWallpaperOverride'];

        function render(data) {
            let status = 'Profile: ' + data.profile + ' (' + data.lastApplyStatus + ')';
            if (data.lastApplied) {
                status += '<br>Last applied: ' + new Date(data.lastApplied).toLocaleString();
            }
            if (data.nextRun) {
                status += '<br>Next check: ' + new Date(data.nextRun).toLocaleString();
            }
            if (data.lastError) {
                status += '<br>Error: ' + data.lastError;
            }
            document.getElementById('status').innerHTML = status;
            document.getElementById('automatic').checked = data.automatic;
        }

        async function load() {
            const res = await fetch('/api/config');
            const data = await res.json();
            for (const f of fields) {
                document.getElementById(f).value = data.config[f];
            }
            document.getElementById('checkIntervalMinutes').value = data.config.checkIntervalMinutes;
            render(data);
        }

        async function save() {
            const payload = {checkIntervalMinutes: parseInt(document.getElementById('checkIntervalMinutes').value)};
            for (const f of fields) {
                payload[f] = document.getElementById(f).value;
            }
            const res = await fetch('/api/config', {
                method: 'PUT',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(payload)
            });
            if (!res.ok) {
                alert(await res.text());
            }
            await load();
        }

        async function post(path) {
            const res = await fetch(path, {method: 'POST'});
            render(await res.json());
        }

        async function setAuto(enabled) {
            const res = await fetch('/api/auto', {method: 'POST', body: JSON.stringify({enabled: enabled})});
            render(await res.json());
        }

        load();
        setInterval(async () => render(await (await fetch('/api/config')).json()), 5000);
    </script>
</body>
</html>`
