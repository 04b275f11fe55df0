// Package navigation holds the single "current page" value of a visit.
package navigation

// Page selects the top-level view.
type Page string

const (
	Home    Page = "home"
	Login   Page = "login"
	SignUp  Page = "signup"
	About   Page = "about"
	Contact Page = "contact"
	Admin   Page = "admin"
)

var all = []Page{Home, Login, SignUp, About, Contact, Admin}

// All lists the pages in menu order.
func All() []Page {
	out := make([]Page, len(all))
	copy(out, all)
	return out
}

// Parse maps a navigation token to a page. Unknown tokens land on Home.
func Parse(token string) Page {
	p := Page(token)
	if p.Valid() {
		return p
	}
	return Home
}

func (p Page) Valid() bool {
	for _, v := range all {
		if v == p {
			return true
		}
	}
	return false
}

// AdminTab is the active section of the admin panel.
type AdminTab string

const (
	TabAdd    AdminTab = "add"
	TabManage AdminTab = "manage"
)

// ParseTab returns TabAdd for anything it does not recognise.
func ParseTab(token string) AdminTab {
	if AdminTab(token) == TabManage {
		return TabManage
	}
	return TabAdd
}

// AccessDenied is rendered in place of the admin panel for non-admins.
const AccessDenied = "access-denied"

// Content names the view to render for p. The page value is not changed by
// the role check; only what is shown differs.
func Content(p Page, isAdmin bool) string {
	if p == Admin && !isAdmin {
		return AccessDenied
	}
	return string(p)
}
