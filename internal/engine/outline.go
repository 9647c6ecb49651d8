package engine

// DefaultOutline is the canonical business-model elicitation outline. The
// leading short codes on question texts ("Rev price or AOV", "CA CAC", ...)
// slugify into id prefixes that the targeting priority list, the cross-topic
// hint table and the hydration mapping match against. Reordering or rewording
// the leading codes silently breaks that coupling, so they stay fixed even
// when the human-readable tail changes.
const DefaultOutline = `## Business Model
- What you sell: describe the product or service in one or two sentences (req)
- How you charge: subscription, per order, or one-time? (req)
- Who buys it: who is the typical customer and why do they buy?

## Revenue
- Rev price or AOV: what do you charge per order, seat, or subscription? (req)
- Rev volume driver: how many orders or active subscribers per month? (req)
- Rev cycle or churn: how long is the sales cycle, or what is monthly churn? (req)

## COGS
- COGS model: is cost of goods a percent of revenue or a cost per unit? (req)
- COGS components: materials, fulfillment, payment fees, hosting?

## Customer Acquisition
- CA funnel: how do new customers find you today? (req)
- CA CAC: what does it cost to acquire one customer?
- CA paid spend: how much goes to paid channels per month?

## Team Payroll
- Current headcount: how many people are on the team today? (req)
- Payroll monthly: what is the total monthly payroll cost? (req)
- Hiring plan: who do you plan to hire over the next six months?

## Operating Expenses
- Opex monthly: what do you spend monthly on rent, tools, and services? (req)

## Working Capital
- WC DSO: how many days until customers actually pay you?
- WC DPO: how many days do you take to pay suppliers?
- WC inventory turns: how many days of inventory do you hold?
`
