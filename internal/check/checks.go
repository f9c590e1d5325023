// Package check implements the seven risk evaluators and the overall-risk
// aggregator. Every evaluator is a pure function of the facts passed in;
// nothing here touches the network or the cache.
package check

import (
	"fmt"
	"strings"

	"token-inspector/internal/entity"
	"token-inspector/internal/scan"
)

// Facts is everything an evaluator may consume for one inspection.
type Facts struct {
	Chain    entity.Chain
	Address  string
	Explorer entity.ExplorerFacts
}

// sourceContext is the shared preprocessed view of the verified source,
// computed once per inspection and handed to every evaluator.
type sourceContext struct {
	available bool
	reason    string
	pre       scan.PreprocessResult
	abi       scan.ABISignals
}

func buildSourceContext(facts Facts) sourceContext {
	src := facts.Explorer.Source

	if src.Err != nil {
		return sourceContext{reason: "Source unavailable: " + src.Err.Message}
	}
	if src.Facts.SourceAvailable == entity.TriFalse {
		return sourceContext{reason: "Contract source is not verified."}
	}
	if src.Facts.SourceAvailable != entity.TriTrue || strings.TrimSpace(src.Facts.SourceCode) == "" {
		return sourceContext{reason: "Contract source availability is unknown."}
	}

	return sourceContext{
		available: true,
		pre:       scan.Preprocess(src.Facts.SourceCode),
		abi:       scan.ExtractABISignals(src.Facts.ABI),
	}
}

// Run evaluates all seven checks in their fixed report order.
func Run(facts Facts) []entity.RiskCheck {
	src := buildSourceContext(facts)

	return []entity.RiskCheck{
		sellRestriction(src),
		ownerPrivileges(src),
		mintCapability(src),
		liquidityLock(),
		holderConcentration(facts),
		contractVerification(facts),
		tradingEnableControl(src),
	}
}

const abiEvidenceLimit = 5

func unknownFromSource(id, label, detail, reason string, howToVerify []string) entity.RiskCheck {
	return entity.RiskCheck{
		ID:          id,
		Label:       label,
		Result:      entity.ResultUnknown,
		Short:       label + " could not be assessed.",
		Detail:      detail,
		Evidence:    []string{reason},
		HowToVerify: howToVerify,
	}
}

func abiEvidence(src sourceContext, keys ...scan.ABISignalKey) []string {
	names := scan.CollectABIFunctionEvidence(src.abi, keys, abiEvidenceLimit)
	if len(names) == 0 {
		return nil
	}
	return []string{"ABI functions: " + strings.Join(names, ", ") + "."}
}

func sellRestriction(src sourceContext) entity.RiskCheck {
	const label = "Sell restriction"
	howToVerify := []string{
		"Open the verified source on the explorer and search for blacklist or whitelist logic around transfers.",
		"Simulate a small sell on a fork before committing funds.",
	}
	detail := "Looks for code paths that can block or throttle selling, such as blacklists, whitelists and trading switches."

	if !src.available {
		return unknownFromSource(entity.CheckSellRestriction, label, detail, src.reason, howToVerify)
	}

	matches := scan.FindSignals(src.pre.Cleaned, sellRestrictionPatterns)
	result := entity.ResultOK
	short := "No sell restriction patterns found in source."
	switch {
	case scan.HasStrength(matches, scan.Strong):
		result = entity.ResultHigh
		short = "Sell restriction patterns found in source."
	case scan.HasStrength(matches, scan.Weak):
		result = entity.ResultWarn
		short = "Possible sell friction patterns found in source."
	}

	evidence := scan.FormatEvidence(matches, src.pre)
	evidence = append(evidence, abiEvidence(src, scan.SignalBlacklist, scan.SignalWhitelist, scan.SignalTradingEnableToggle)...)

	return entity.RiskCheck{
		ID:          entity.CheckSellRestriction,
		Label:       label,
		Result:      result,
		Short:       short,
		Detail:      detail,
		Evidence:    evidence,
		HowToVerify: howToVerify,
	}
}

func ownerPrivileges(src sourceContext) entity.RiskCheck {
	const label = "Owner privileges"
	howToVerify := []string{
		"Check which functions are gated by onlyOwner in the verified source.",
		"Check whether ownership has been renounced or moved to a timelock.",
	}
	detail := "Looks for owner-gated functions that can change trading rules after launch, such as blacklist or fee setters."

	if !src.available {
		return unknownFromSource(entity.CheckOwnerPrivileges, label, detail, src.reason, howToVerify)
	}

	ownerMatches := scan.FindSignals(src.pre.Cleaned, ownerPatterns)
	changeMatches := scan.FindSignals(src.pre.Cleaned, ownerChangePatterns)

	result := entity.ResultOK
	short := "No risky owner privileges found in source."
	if len(ownerMatches) > 0 {
		switch {
		case scan.HasStrength(changeMatches, scan.Strong):
			result = entity.ResultHigh
			short = "Owner can change blacklist or whitelist rules."
		case scan.HasStrength(changeMatches, scan.Weak):
			result = entity.ResultWarn
			short = "Owner can adjust fees or limits."
		}
	}

	evidence := scan.FormatEvidence(append(ownerMatches, changeMatches...), src.pre)
	evidence = append(evidence, abiEvidence(src, scan.SignalOwnerSetter, scan.SignalBlacklist, scan.SignalWhitelist)...)

	return entity.RiskCheck{
		ID:          entity.CheckOwnerPrivileges,
		Label:       label,
		Result:      result,
		Short:       short,
		Detail:      detail,
		Evidence:    evidence,
		HowToVerify: howToVerify,
	}
}

func mintCapability(src sourceContext) entity.RiskCheck {
	const label = "Mint capability"
	howToVerify := []string{
		"Search the verified source for mint functions and who may call them.",
		"Compare the current total supply against the supply at launch.",
	}
	detail := "Looks for the ability to create new tokens after deployment, which can dilute holders."

	if !src.available {
		return unknownFromSource(entity.CheckMintCapability, label, detail, src.reason, howToVerify)
	}

	mintMatches := scan.FindSignals(src.pre.Cleaned, mintPatterns)
	roleMatches := scan.FindSignals(src.pre.Cleaned, minterRolePatterns)

	result := entity.ResultOK
	short := "No mint capability patterns found in source."
	switch {
	case len(mintMatches) > 0 && len(roleMatches) > 0:
		result = entity.ResultHigh
		short = "Mint functions with a minter role found in source."
	case len(mintMatches) > 0 || len(roleMatches) > 0:
		result = entity.ResultWarn
		short = "Mint-related patterns found in source."
	}

	evidence := scan.FormatEvidence(append(mintMatches, roleMatches...), src.pre)
	evidence = append(evidence, abiEvidence(src, scan.SignalMint, scan.SignalMinterRole)...)

	return entity.RiskCheck{
		ID:          entity.CheckMintCapability,
		Label:       label,
		Result:      result,
		Short:       short,
		Detail:      detail,
		Evidence:    evidence,
		HowToVerify: howToVerify,
	}
}

func liquidityLock() entity.RiskCheck {
	// No data source in scope can verify LP lock status.
	return entity.RiskCheck{
		ID:     entity.CheckLiquidityLock,
		Label:  "Liquidity lock",
		Result: entity.ResultUnknown,
		Short:  "Liquidity lock status cannot be verified.",
		Detail: "Whether the liquidity pool tokens are locked or burned cannot be determined from explorer or RPC data.",
		Evidence: []string{
			"No data source in scope can verify liquidity lock status.",
		},
		HowToVerify: []string{
			"Check the LP token holders on the explorer for locker contracts or burn addresses.",
			"Check well-known locker services for this pair.",
		},
	}
}

func holderConcentration(facts Facts) entity.RiskCheck {
	const label = "Holder concentration"
	howToVerify := []string{
		"Open the holders tab on the explorer and review the largest wallets.",
		"Check whether top holders are contracts (pools, lockers) or wallets.",
	}
	detail := "Measures how much of the supply sits with the largest wallets; concentrated supply can be dumped at will."

	holders := facts.Explorer.Holders
	percents := holders.Facts.TopHolderPercents

	if holders.Err != nil || len(percents) != entity.TopHolderCount {
		reason := "Holder list unavailable."
		if holders.Err != nil {
			reason = "Holder data unusable: " + holders.Err.Message
		} else if len(percents) > 0 {
			reason = fmt.Sprintf("Holder data unusable: %d of %d entries available.", len(percents), entity.TopHolderCount)
		}
		return entity.RiskCheck{
			ID:          entity.CheckHolderConcentration,
			Label:       label,
			Result:      entity.ResultUnknown,
			Short:       "Holder concentration could not be assessed.",
			Detail:      detail,
			Evidence:    []string{reason},
			HowToVerify: howToVerify,
		}
	}

	top1 := percents[0]
	var top5, top10 float64
	for i, p := range percents {
		if i < 5 {
			top5 += p
		}
		top10 += p
	}

	result := entity.ResultOK
	short := "Supply is reasonably distributed across top holders."
	switch {
	case top1 >= 50 || top5 >= 80 || top10 >= 90:
		result = entity.ResultHigh
		short = "Supply is heavily concentrated in a few wallets."
	case top1 >= 30 || top5 >= 60 || top10 >= 75:
		result = entity.ResultWarn
		short = "Supply is notably concentrated in top wallets."
	}

	return entity.RiskCheck{
		ID:     entity.CheckHolderConcentration,
		Label:  label,
		Result: result,
		Short:  short,
		Detail: detail,
		Evidence: []string{
			fmt.Sprintf("Top 1 holder: %.2f%% of supply.", top1),
			fmt.Sprintf("Top 5 holders: %.2f%% of supply.", top5),
			fmt.Sprintf("Top 10 holders: %.2f%% of supply.", top10),
		},
		HowToVerify: howToVerify,
	}
}

func contractVerification(facts Facts) entity.RiskCheck {
	const label = "Contract verification"
	howToVerify := []string{
		"Open the contract page on the explorer and confirm the source tab shows verified code.",
	}
	detail := "Verified source lets anyone audit the contract; unverified bytecode hides its behavior."

	src := facts.Explorer.Source
	evidence := []string{}
	if url := facts.Chain.ExplorerAddressURL(facts.Address); url != "" {
		evidence = append(evidence, "Explorer: "+url)
	}

	switch {
	case src.Err == nil && src.Facts.SourceAvailable == entity.TriTrue:
		return entity.RiskCheck{
			ID:          entity.CheckContractVerification,
			Label:       label,
			Result:      entity.ResultOK,
			Short:       "Contract source is verified on the explorer.",
			Detail:      detail,
			Evidence:    append(evidence, "Verified source code is published."),
			HowToVerify: howToVerify,
		}
	case src.Err == nil && src.Facts.SourceAvailable == entity.TriFalse:
		return entity.RiskCheck{
			ID:          entity.CheckContractVerification,
			Label:       label,
			Result:      entity.ResultWarn,
			Short:       "Contract source is not verified.",
			Detail:      detail,
			Evidence:    append(evidence, "No verified source code is published."),
			HowToVerify: howToVerify,
		}
	}

	reason := "Verification status is unknown."
	if src.Err != nil {
		reason = "Verification status unavailable: " + src.Err.Message
	}
	return entity.RiskCheck{
		ID:          entity.CheckContractVerification,
		Label:       label,
		Result:      entity.ResultUnknown,
		Short:       "Contract verification could not be assessed.",
		Detail:      detail,
		Evidence:    append(evidence, reason),
		HowToVerify: howToVerify,
	}
}

func tradingEnableControl(src sourceContext) entity.RiskCheck {
	const label = "Trading enable control"
	howToVerify := []string{
		"Search the verified source for pause or trading toggle functions and who may call them.",
	}
	detail := "Looks for switches that let a privileged account halt or gate trading for everyone."

	if !src.available {
		return unknownFromSource(entity.CheckTradingEnableControl, label, detail, src.reason, howToVerify)
	}

	matches := scan.FindSignals(src.pre.Cleaned, tradingControlPatterns)
	result := entity.ResultOK
	short := "No trading control patterns found in source."
	switch {
	case scan.HasStrength(matches, scan.Strong):
		result = entity.ResultHigh
		short = "Trading can be paused or stopped by a privileged account."
	case scan.HasStrength(matches, scan.Weak):
		result = entity.ResultWarn
		short = "Trading toggle patterns found in source."
	}

	evidence := scan.FormatEvidence(matches, src.pre)
	evidence = append(evidence, abiEvidence(src, scan.SignalPause, scan.SignalUnpause, scan.SignalTradingEnableToggle)...)

	return entity.RiskCheck{
		ID:          entity.CheckTradingEnableControl,
		Label:       label,
		Result:      result,
		Short:       short,
		Detail:      detail,
		Evidence:    evidence,
		HowToVerify: howToVerify,
	}
}
