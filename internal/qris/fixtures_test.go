package qris_test

// staticPayload is a static QRIS payload with a currency field, merchant
// "saktiJaya" and a valid checksum (4E02).
const staticPayload = "00020101021126660017ID.CO.BANKBPD.WWW011893600110000001234502120000000123450303UMI" +
	"51440014ID.CO.QRIS.WWW0215ID10234567890120303UMI" +
	"5204581253033605802ID5909saktiJaya6007JAKARTA6105101106304" + "4E02"

// dynamicPayload is staticPayload converted with an amount of 25000.
const dynamicPayload = "00020101021226660017ID.CO.BANKBPD.WWW011893600110000001234502120000000123450303UMI" +
	"51440014ID.CO.QRIS.WWW0215ID10234567890120303UMI" +
	"520458125303360540525000" + "5802ID5909saktiJaya6007JAKARTA6105101106304" + "64D8"

// noCurrencyPayload is staticPayload without tag 53.
const noCurrencyPayload = "00020101021126660017ID.CO.BANKBPD.WWW011893600110000001234502120000000123450303UMI" +
	"51440014ID.CO.QRIS.WWW0215ID10234567890120303UMI" +
	"520458125802ID5909saktiJaya6007JAKARTA6105101106304" + "1056"

// noCurrencyDynamic is noCurrencyPayload converted with an amount of 1500.
const noCurrencyDynamic = "00020101021226660017ID.CO.BANKBPD.WWW011893600110000001234502120000000123450303UMI" +
	"51440014ID.CO.QRIS.WWW0215ID10234567890120303UMI" +
	"520458125802ID5909saktiJaya6007JAKARTA610510110" + "54041500" + "6304" + "6DE3"
