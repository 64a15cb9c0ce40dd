// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package guide asks the text generator for structured book and memo data.

Three prompts are supported:

  - ForCatalogItem builds a reading guide for a catalog record before it is
    stored. It tries twice, the second time with a stricter instruction, and
    returns an empty guide rather than an error.
  - Regenerate rewrites the guide of a stored book. Failures are returned to
    the caller.
  - SummarizeMemo extracts liked elements, disliked elements and emotional
    triggers from a parent's memo. It always returns a summary, falling back
    to models.MemoSummaryParseFailed or models.MemoSummaryGenFailed.

Model output is free text; the first '{' through the last '}' is decoded as
JSON. Fields may arrive as a string or a list of strings.
*/
package guide
