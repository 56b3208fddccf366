// Package jbxml builds and parses JBXML documents, the request/response
// schema of the JobBOSS RequestProcessor SDK. The schema is owned by the
// SDK; this package only covers the two requests the tool needs
// (MaterialQueryRq, MaterialModRq) and the response fields it reads.
package jbxml

import "fmt"

// Placeholders embedded in generated artifacts. Generated documents must be
// reviewable and replayable standalone, so session and optimistic-lock
// values are bound at execution time, not generation time.
const (
	PlaceholderSession     = "{{SESSION_ID}}"
	PlaceholderLastUpdated = "{{LAST_UPDATED}}"
)

const queryFormat = `<?xml version="1.0" encoding="UTF-8"?>
<JBXML>
    <JBXMLRequest Session="%s">
        <MaterialQueryRq>
            <MaterialQueryFilter>
                <ID>%s</ID>
                <IncludeMaterialLocations>false</IncludeMaterialLocations>
                <IncludeCustomerParts>false</IncludeCustomerParts>
                <IncludePriceBreaks>false</IncludePriceBreaks>
            </MaterialQueryFilter>
        </MaterialQueryRq>
    </JBXMLRequest>
</JBXML>`

const updateFormat = `<?xml version="1.0" encoding="UTF-8"?>
<JBXML>
    <JBXMLRequest Session="%s">
        <MaterialModRq>
            <MaterialMod>
                <ID>%s</ID>
                <LastUpdated>%s</LastUpdated>
            </MaterialMod>
            <AdjustOnHandQty>
                <ReasonRef ID="%s"/>
                <Quantity>%d</Quantity>
            </AdjustOnHandQty>
        </MaterialModRq>
    </JBXMLRequest>
</JBXML>`

// BuildQuery returns a MaterialQueryRq document for one material, with the
// session left as a placeholder.
func BuildQuery(materialID string) string {
	return fmt.Sprintf(queryFormat, PlaceholderSession, materialID)
}

// BuildUpdate returns a MaterialModRq document adjusting one material's
// on-hand quantity. Session and LastUpdated are left as placeholders;
// LastUpdated is the SDK's optimistic-lock token and is only known after
// the query round-trip at execution time.
func BuildUpdate(materialID string, quantity int, reasonID string) string {
	return fmt.Sprintf(updateFormat, PlaceholderSession, materialID, PlaceholderLastUpdated, reasonID, quantity)
}
