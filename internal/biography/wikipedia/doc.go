// Package wikipedia provides the MediaWiki action API client used as
// biography source B.
//
// Pages are fetched by exact title with redirects followed. A missing page
// maps to gender.ErrPageError. A disambiguation page is retried once with the
// first linked title containing the configured hint (for example
// "Future (rapper)"); without such a link the lookup reports
// gender.ErrDisambiguous.
package wikipedia
