package check

import "token-inspector/internal/scan"

// Pattern sets scanned against preprocessed source. Names are what surface
// in evidence lines, so they stay short and descriptive.

var sellRestrictionPatterns = []scan.Pattern{
	scan.NewPattern("blacklist", `blacklist`, scan.Strong),
	scan.NewPattern("whitelist", `whitelist`, scan.Strong),
	scan.NewPattern("trading_enabled_flag", `trading\s*enabled|tradingactive|(?:enable|disable|open)trading`, scan.Strong),
	scan.NewPattern("anti_bot", `anti[\s_-]?bot`, scan.Weak),
	scan.NewPattern("cooldown", `cooldown`, scan.Weak),
	scan.NewPattern("sell_limit", `max\s*sell|sell\s*limit|max\s*tx|max\s*transaction`, scan.Weak),
	scan.NewPattern("sell_tax", `sell\s*(?:tax|fee)`, scan.Weak),
}

var ownerPatterns = []scan.Pattern{
	scan.NewPattern("only_owner", `onlyowner`, scan.Strong),
	scan.NewPattern("ownable", `\bownable\b`, scan.Strong),
	scan.NewPattern("ownership_transfer", `transferownership|renounceownership`, scan.Strong),
}

var ownerChangePatterns = []scan.Pattern{
	scan.NewPattern("blacklist_control", `blacklist`, scan.Strong),
	scan.NewPattern("whitelist_control", `whitelist`, scan.Strong),
	scan.NewPattern("fee_setter", `set[a-z_]*fee|updatefee`, scan.Weak),
	scan.NewPattern("limit_setter", `set[a-z_]*(?:limit|maxtx|maxwallet)`, scan.Weak),
}

var mintPatterns = []scan.Pattern{
	scan.NewPattern("mint", `\bmint\b|\b_mint\b`, scan.Strong),
}

var minterRolePatterns = []scan.Pattern{
	scan.NewPattern("minter_role", `minter_?role|setminter|addminter|grantrole`, scan.Strong),
}

var tradingControlPatterns = []scan.Pattern{
	scan.NewPattern("pause_trading", `\bpause\b|\bunpause\b|(?:stop|pause|resume|halt)\s*trading`, scan.Strong),
	scan.NewPattern("trading_toggle", `(?:enable|disable|open|set)\s*trading|tradingenabled|tradingactive`, scan.Weak),
}
