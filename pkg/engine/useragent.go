package engine

// UserAgentStylesheet gives common elements their block display and hides
// document metadata. Its rules rank below every author rule.
const UserAgentStylesheet = `
head, style, script, title, meta, link, template { display: none }

html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, dl, dt, dd,
section, article, aside, header, footer, nav, main, figure, figcaption,
blockquote, pre, address, form, fieldset, table, hr { display: block }
`
