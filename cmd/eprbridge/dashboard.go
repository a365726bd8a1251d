package main

import (
	"net/http"
)

func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>eprbridge Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
        }
        .header {
            text-align: center;
            color: white;
            margin-bottom: 30px;
        }
        .header h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
        }
        .header p {
            opacity: 0.9;
            font-size: 1.1em;
        }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-card {
            background: white;
            border-radius: 12px;
            padding: 25px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
            transition: transform 0.2s;
        }
        .stat-card:hover {
            transform: translateY(-5px);
        }
        .stat-label {
            color: #666;
            font-size: 0.9em;
            text-transform: uppercase;
            letter-spacing: 1px;
            margin-bottom: 10px;
        }
        .stat-value {
            font-size: 2.5em;
            font-weight: bold;
            color: #333;
        }
        .stat-value.success { color: #10b981; }
        .stat-value.danger { color: #ef4444; }
        .stat-value.info { color: #3b82f6; }
        .stat-value.warning { color: #f59e0b; }
        .stat-sublabel {
            margin-top: 8px;
            font-size: 0.9em;
            color: #666;
            font-weight: normal;
        }
        .table-card {
            background: white;
            border-radius: 12px;
            padding: 25px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .table-card h2 {
            margin-bottom: 20px;
            color: #333;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th {
            text-align: left;
            padding: 12px;
            background: #f3f4f6;
            color: #666;
            font-weight: 600;
            text-transform: uppercase;
            font-size: 0.85em;
            letter-spacing: 0.5px;
        }
        td {
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        tr:last-child td {
            border-bottom: none;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85em;
            font-weight: 600;
        }
        .badge.success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge.danger {
            background: #fee2e2;
            color: #991b1b;
        }
        .level-bar {
            height: 24px;
            background: #e5e7eb;
            border-radius: 12px;
            overflow: hidden;
            margin-bottom: 10px;
        }
        .level-fill {
            height: 100%;
            background: linear-gradient(90deg, #3b82f6, #10b981);
            transition: width 0.4s;
        }
        .refresh-indicator {
            position: fixed;
            top: 20px;
            right: 20px;
            background: white;
            padding: 10px 20px;
            border-radius: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            font-size: 0.9em;
            color: #666;
        }
        .refresh-indicator.active {
            background: #10b981;
            color: white;
        }
        @keyframes pulse {
            0%, 100% { opacity: 1; }
            50% { opacity: 0.5; }
        }
        .loading {
            animation: pulse 1.5s ease-in-out infinite;
        }
    </style>
</head>
<body>
    <div class="refresh-indicator" id="refreshIndicator">
        Auto-refresh: <span id="countdown">1</span>s
    </div>

    <div class="container">
        <div class="header">
            <h1>eprbridge</h1>
            <p>EPR buffer level and packet delays</p>
        </div>

        <div class="table-card" style="margin-bottom: 30px;">
            <h2>Pool <span class="badge success" id="poolState">idle</span></h2>
            <div class="level-bar"><div class="level-fill" id="levelFill" style="width: 0%"></div></div>
            <div class="stat-sublabel" id="levelText">0 / 0 units</div>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <div class="stat-label">Packets</div>
                <div class="stat-value info" id="packets">0</div>
                <div class="stat-sublabel" id="units">0 units requested</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Average Delay</div>
                <div class="stat-value warning" id="avgDelay">0 ms</div>
                <div class="stat-sublabel" id="maxDelay">max 0 ms</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Ticks Applied</div>
                <div class="stat-value success" id="ticksApplied">0</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Ticks Missed</div>
                <div class="stat-value danger" id="ticksMissed">0</div>
                <div class="stat-sublabel" id="ticksDetail">0 dropped, 0 deferred</div>
            </div>
        </div>

        <div class="table-card">
            <h2>Packets by Tier</h2>
            <table>
                <thead>
                    <tr>
                        <th>Tier</th>
                        <th>Packets</th>
                        <th>Share</th>
                    </tr>
                </thead>
                <tbody id="tierTable">
                    <tr>
                        <td colspan="3" style="text-align: center; color: #999;">
                            Loading...
                        </td>
                    </tr>
                </tbody>
            </table>
        </div>
    </div>

    <script>
        let countdown = 1;

        async function refresh() {
            try {
                const [status, metrics] = await Promise.all([
                    fetch('/status').then(r => r.json()),
                    fetch('/metrics').then(r => r.json()),
                ]);
                updateDashboard(status, metrics);
            } catch (error) {
                console.error('Failed to fetch status:', error);
            }
        }

        function updateDashboard(status, data) {
            const pct = status.capacity > 0 ? (status.level / status.capacity) * 100 : 0;
            document.getElementById('levelFill').style.width = pct.toFixed(1) + '%';
            document.getElementById('levelText').textContent =
                status.level.toLocaleString() + ' / ' + status.capacity.toLocaleString() + ' units';
            const state = document.getElementById('poolState');
            state.textContent = status.state;
            state.className = 'badge ' + (status.state === 'idle' ? 'success' : 'danger');

            document.getElementById('packets').textContent = data.packets.toLocaleString();
            document.getElementById('units').textContent =
                data.units_total.toLocaleString() + ' units requested';
            document.getElementById('avgDelay').textContent = data.avg_delay_ms.toFixed(2) + ' ms';
            document.getElementById('maxDelay').textContent = 'max ' + data.max_delay_ms.toFixed(2) + ' ms';
            document.getElementById('ticksApplied').textContent = data.ticks_applied.toLocaleString();
            document.getElementById('ticksMissed').textContent =
                (data.ticks_dropped + data.ticks_deferred).toLocaleString();
            document.getElementById('ticksDetail').textContent =
                data.ticks_dropped + ' dropped, ' + data.ticks_deferred + ' deferred';

            const tbody = document.getElementById('tierTable');
            const tiers = Object.entries(data.packets_by_tier || {});
            if (tiers.length > 0) {
                tbody.innerHTML = tiers.map(([tier, count]) => {
                    const share = ((count / data.packets) * 100).toFixed(1);
                    return ` + "`" + `
                        <tr>
                            <td><strong>${tier}</strong></td>
                            <td>${count.toLocaleString()}</td>
                            <td>${share}%</td>
                        </tr>
                    ` + "`" + `;
                }).join('');
            } else {
                tbody.innerHTML = ` + "`" + `
                    <tr>
                        <td colspan="3" style="text-align: center; color: #999;">
                            No packets yet
                        </td>
                    </tr>
                ` + "`" + `;
            }
        }

        refresh();
        setInterval(() => {
            refresh();
            countdown = 1;
            document.getElementById('countdown').textContent = countdown;
        }, 1000);
    </script>
</body>
</html>`
