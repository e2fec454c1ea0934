package inkpress

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, a.Site().Path("admin"))
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(a.Site(), true, CsrfToken(c)))
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.Site().Path("admin"))
}

func (a *App) handleAdminReload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.Site().Path("admin"))
	}
	report, err := a.Reload(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("admin reload: %v", err)
		return a.renderAdminDashboard(c, "reload failed: "+err.Error())
	}
	return a.renderAdminDashboard(c, fmt.Sprintf("reloaded: %d posts, %d failing documents",
		len(report.Posts), len(report.Failures)))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	return Render(c, a.Views.AdminDashboard(a.Site(), a.Report(), msg, CsrfToken(c)))
}
