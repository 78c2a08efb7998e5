package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Yathra Admin - Sign in</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: #f4f6f8; color: #1f2933; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
.card { background: #fff; padding: 32px; border-radius: 8px; width: 90%; max-width: 380px; box-shadow: 0 10px 30px rgba(0,0,0,0.08); }
h1 { font-size: 22px; margin: 0 0 20px; }
label { display: block; font-size: 14px; margin-top: 12px; }
input { width: 100%; box-sizing: border-box; padding: 10px; margin-top: 6px; border: 1px solid #cbd2d9; border-radius: 4px; }
button { width: 100%; margin-top: 20px; padding: 12px; font-size: 16px; border: none; border-radius: 4px; cursor: pointer; background: #0b6e4f; color: #fff; }
button:disabled { opacity: 0.6; cursor: default; }
.error { color: #b42318; font-size: 14px; min-height: 18px; margin-top: 12px; }
</style>
</head>
<body>
<div class="card">
  <h1>Admin sign in</h1>
  <form id="login">
    <label>Username<input name="username" autocomplete="username" required /></label>
    <label>Password<input type="password" name="password" autocomplete="current-password" required /></label>
    <div class="error" id="error"></div>
    <button type="submit">Sign in</button>
  </form>
</div>
<script>
const form = document.getElementById('login');
form.addEventListener('submit', async (event) => {
  event.preventDefault();
  const button = form.querySelector('button');
  button.disabled = true;
  document.getElementById('error').textContent = '';
  const response = await fetch('/api/auth/login', {
    method: 'POST',
    credentials: 'same-origin',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(Object.fromEntries(new FormData(form).entries()))
  });
  button.disabled = false;
  if (response.ok) {
    const next = new URLSearchParams(window.location.search).get('next');
    window.location.href = next && next.startsWith('/') && !next.startsWith('//') ? next : '/packages';
    return;
  }
  const data = await response.json().catch(() => ({}));
  document.getElementById('error').textContent = data.error || 'Sign in failed';
});
</script>
</body>
</html>`

func RegisterPages(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusTemporaryRedirect, "/packages")
	})
	e.GET(loginPath, func(c echo.Context) error {
		return c.HTML(http.StatusOK, loginPageHTML)
	})
}
