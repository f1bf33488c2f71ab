// Package templates holds the page components rendered by the web layer.
// The components live in .templ files; run templ generate after editing them.
package templates

//go:generate templ generate

import "github.com/JonMunkholm/scizon/internal/dashboard"

var icons = map[dashboard.Icon]string{
	dashboard.IconDashboard: `<rect x="3" y="3" width="7" height="9"/><rect x="14" y="3" width="7" height="5"/><rect x="14" y="12" width="7" height="9"/><rect x="3" y="16" width="7" height="5"/>`,
	dashboard.IconUser:      `<circle cx="12" cy="8" r="4"/><path d="M4 21v-1a7 7 0 0 1 16 0v1"/>`,
	dashboard.IconUsers:     `<circle cx="9" cy="8" r="4"/><path d="M1 21v-1a7 7 0 0 1 14 0v1"/><path d="M17 4a4 4 0 0 1 0 8"/><path d="M23 21v-1a7 7 0 0 0-4-6.3"/>`,
	dashboard.IconInvoices:  `<path d="M12 2v20"/><path d="M17 5H9.5a3.5 3.5 0 0 0 0 7h5a3.5 3.5 0 0 1 0 7H6"/>`,
	dashboard.IconTrending:  `<path d="m22 7-8.5 8.5-5-5L2 17"/><path d="M16 7h6v6"/>`,
	dashboard.IconCart:      `<circle cx="8" cy="21" r="1"/><circle cx="19" cy="21" r="1"/><path d="M2 2h3l2.7 13.4a2 2 0 0 0 2 1.6h9.7a2 2 0 0 0 2-1.6L23 6H6"/>`,
	dashboard.IconLogout:    `<path d="M9 21H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h4"/><path d="m16 17 5-5-5-5"/><path d="M21 12H9"/>`,
}

const styles = `
*{box-sizing:border-box}body{margin:0;font-family:system-ui,sans-serif;background:#f8fafc;color:#0f172a}
.shell{display:flex;min-height:100vh}.sidebar{width:16rem;background:#fff;border-right:1px solid #e2e8f0;display:flex;flex-direction:column}
.sidebar.closed{display:none}.sidebar header{padding:1.5rem;border-bottom:1px solid #e2e8f0}.sidebar nav{flex:1;padding:1rem}
.nav-item{display:flex;gap:.75rem;align-items:center;padding:.6rem .9rem;border-radius:.5rem;color:#475569;text-decoration:none}
.nav-item.active{background:#0f172a;color:#fff}.icon{width:1.1rem;height:1.1rem}
.logout{margin:1rem;display:flex;gap:.5rem;align-items:center;border:0;background:none;color:#475569;cursor:pointer}
main{flex:1;padding:2rem}.topbar{display:flex;justify-content:space-between;align-items:center;margin-bottom:1.5rem}
.grid{display:grid;gap:1rem;grid-template-columns:repeat(auto-fit,minmax(14rem,1fr))}
.card{background:#fff;border:1px solid #e2e8f0;border-radius:.75rem;padding:1.25rem}
.change{color:#16a34a;font-size:.8rem}.chart{width:100%;height:340px;border:0}
.feedback{padding:.75rem 1rem;border-radius:.5rem;display:flex;justify-content:space-between;margin-top:1rem}
.feedback.success{background:#dcfce7;color:#166534}.feedback.error{background:#fee2e2;color:#991b1b}
.field{display:flex;flex-direction:column;gap:.25rem;margin-bottom:1rem}.field input,.field textarea{padding:.5rem;border:1px solid #cbd5e1;border-radius:.375rem}
.field .err{color:#b91c1c;font-size:.8rem}.toast{position:fixed;right:1.5rem;bottom:1.5rem;background:#0f172a;color:#fff;padding:1rem 1.25rem;border-radius:.5rem}
`

var stylesheet = "<style>" + styles + "</style>"

const sidebarScript = `<script>
document.getElementById('sidebar-toggle').addEventListener('click', async () => {
  const res = await fetch('/ui/sidebar/toggle', {method: 'POST', headers: {'Accept': 'application/json'}});
  if (!res.ok) return;
  const {open} = await res.json();
  document.getElementById('sidebar').classList.toggle('closed', !open);
});
</script>`

const importScript = `<script>
(() => {
  const input = document.getElementById('import-file');
  const status = document.getElementById('import-status');
  const box = document.getElementById('import-feedback');

  const show = (fb) => {
    box.replaceChildren();
    if (!fb || fb.kind === 'none') return;
    const banner = document.createElement('div');
    banner.className = 'feedback ' + fb.kind;
    banner.setAttribute('role', 'status');
    const text = document.createElement('span');
    text.textContent = fb.message;
    const close = document.createElement('button');
    close.type = 'button';
    close.className = 'dismiss';
    close.textContent = '×';
    banner.append(text, close);
    box.append(banner);
  };

  box.addEventListener('click', async (e) => {
    if (!e.target.classList.contains('dismiss')) return;
    const res = await fetch('/api/import/feedback', {method: 'DELETE'});
    if (res.ok) show((await res.json()).feedback);
  });

  input.addEventListener('change', async () => {
    const file = input.files[0];
    show(null);
    if (!file) {
      fetch('/api/import/feedback', {method: 'DELETE'});
      return;
    }
    input.disabled = true;
    status.textContent = 'A processar...';
    const body = new FormData();
    body.append('file', file);
    try {
      const res = await fetch('/api/import', {method: 'POST', body, headers: {'Accept': 'application/json'}});
      const snap = await res.json();
      show(snap.feedback || {kind: 'error', message: snap.message});
    } catch (err) {
      show({kind: 'error', message: 'Erro ao carregar o ficheiro.'});
    } finally {
      input.value = '';
      input.disabled = false;
      status.textContent = '';
    }
  });
})();
</script>`
