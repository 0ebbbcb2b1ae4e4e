package style

// userAgentCSS is the subset of the HTML rendering defaults that affects
// which text is rendered and where line breaks go.
const userAgentCSS = `
html, body, address, blockquote, center, dialog, div, figure, figcaption,
footer, form, header, hr, legend, listing, main, p, plaintext, pre, search,
xmp, article, aside, h1, h2, h3, h4, h5, h6, hgroup, nav, section, dir, dd,
dl, dt, menu, ol, ul, fieldset, details, summary, optgroup, option,
frameset, frame {
  display: block;
}

head, link, meta, script, style, template, title, base, basefont,
datalist, param, noframes, area, rp {
  display: none;
}

[hidden] {
  display: none;
}

li {
  display: list-item;
}

table {
  display: table;
}

caption {
  display: table-caption;
}

colgroup {
  display: table-column-group;
}

col {
  display: table-column;
}

thead {
  display: table-header-group;
}

tbody {
  display: table-row-group;
}

tfoot {
  display: table-footer-group;
}

tr {
  display: table-row;
}

td, th {
  display: table-cell;
}

button, input, select, textarea, meter, progress {
  display: inline-block;
}

ruby {
  display: ruby;
}

rt {
  display: ruby-text;
}

pre, listing, xmp, plaintext, textarea {
  white-space: pre;
}

nobr {
  white-space: nowrap;
}
`
