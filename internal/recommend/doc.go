// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package recommend turns a child's reading history into book recommendations.

# Pipeline

Every request recomputes everything from storage:

	logs + books -> ThemeStats + Profile -> Scorer -> Composer -> Explainer

ThemeStats weighs each theme by rarity across the library, with broad themes
such as 가족 (family) or 동물 (animals) down-weighted. AnalyzeProfile reads the
recent logs into theme preferences, engagement counters, an age estimate, an
emotion sensitivity level and comfort triggers taken from memo summaries.

# Scoring

A candidate's score is additive:

	themePreference (<= 55) + engagement (<= 25) + comfort (0..20)
	  + age (-10..0) + diversity (-1..3) + interest (0 or bonus)

Stored books and catalog new arrivals are scored by the same Scorer; catalog
items take their themes from a matching stored book or from keyword matches.

# Lists

The list length and the safe/explore split depend on the reading pace.
ComposePooled (today) samples both parts from pools of the best candidates.
ComposeTopSlice (new arrivals) takes the safe part straight from the top.
No candidate appears twice.

# Reasons

BuildRuleReasons derives short grounded fragments from the score. When a text
generator is configured the Explainer asks it to rephrase them, rejecting
short or promotional output. Each reason carries its source tag (ai,
rule_no_key, rule_guard, rule_openai_429, ...).
*/
package recommend
